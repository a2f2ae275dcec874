package quota

// Runner 执行外部命令并返回其标准输出
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

// SummarySource 一次调用返回多个文件系统的配额 (NFS quota 汇总)
type SummarySource interface {
	FetchAllReports(user string) []Record
}

// MountSource 每次调用只查询一个挂载点 (Lustre)
type MountSource interface {
	FetchReport(user, mountPoint string) (Record, bool)
}
