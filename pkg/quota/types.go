package quota

// Record 是某个用户在单个挂载点上的配额快照。
// 空间单位统一为 MiB，文件数为绝对数量；Grace 为空表示源工具没有给出宽限期。
type Record struct {
	MountPoint string `json:"mount_point"`

	UsedSpace  float64 `json:"used_space"`
	SoftSpace  float64 `json:"soft_space_limit"`
	HardSpace  float64 `json:"hard_space_limit"`
	SpaceGrace string  `json:"space_grace,omitempty"`

	UsedFiles  int64  `json:"used_files"`
	SoftFiles  int64  `json:"soft_file_limit"`
	HardFiles  int64  `json:"hard_file_limit"`
	FilesGrace string `json:"files_grace,omitempty"`
}

// HasSpaceLimits reports whether the space section has anything to show.
func (r Record) HasSpaceLimits() bool { return r.SoftSpace > 0 || r.HardSpace > 0 }

// HasFileLimits reports whether the files section has anything to show.
func (r Record) HasFileLimits() bool { return r.SoftFiles > 0 || r.HardFiles > 0 }
