package lustre

import (
	"regexp"
	"strings"

	"github.com/terminus-io/quotabar/pkg/quota"
	"github.com/terminus-io/quotabar/pkg/utils"
)

// lfs quota -h 有两种排版:
//
//	/mnt/scratch  1.2T*  1T  2T  6d23h59m  12345  0  0  -
//
// 或挂载点单独一行，数据在下一行:
//
//	/mnt/fastscratch
//	              1.2T*  1T  2T  6d23h59m  12345  0  0  -
//
// 完整数据 8 列: used soft hard grace files soft hard grace。
// 部分版本不输出 grace 列，只剩 6 或 7 列。
const (
	fullColumns = 8
	minColumns  = 6
)

// noGrace 是 lfs 表示"没有宽限期"的占位符
const noGrace = "-"

var countPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?[kKmM]?$`)

// dataLine 是挂载点之后的数据 token
type dataLine []string

type lineShape int

const (
	shapeNoGrace lineShape = iota
	// 只有 files 的宽限期
	shapeFilesGrace
	// 只有空间的宽限期
	shapeSpaceGrace
	shapeBothGrace
)

func (d dataLine) shape() (lineShape, bool) {
	switch {
	case len(d) >= fullColumns:
		return shapeBothGrace, true
	case len(d) == minColumns+1:
		// 下标 3 是文件数说明缺的是空间宽限期
		if countPattern.MatchString(clean(d[3])) {
			return shapeFilesGrace, true
		}
		return shapeSpaceGrace, true
	case len(d) == minColumns:
		return shapeNoGrace, true
	}
	return 0, false
}

func (d dataLine) record(mountPoint string) (quota.Record, bool) {
	shape, ok := d.shape()
	if !ok {
		return quota.Record{}, false
	}

	r := quota.Record{
		MountPoint: mountPoint,
		UsedSpace:  utils.ParseSize(clean(d[0])),
		SoftSpace:  utils.ParseSize(clean(d[1])),
		HardSpace:  utils.ParseSize(clean(d[2])),
	}

	files := d[3:]
	if shape == shapeSpaceGrace || shape == shapeBothGrace {
		r.SpaceGrace = grace(d[3])
		files = d[4:]
	}
	r.UsedFiles = utils.ParseCount(clean(files[0]))
	r.SoftFiles = utils.ParseCount(clean(files[1]))
	r.HardFiles = utils.ParseCount(clean(files[2]))
	if shape == shapeFilesGrace || shape == shapeBothGrace {
		r.FilesGrace = grace(files[3])
	}
	return r, true
}

// ParseReport 先尝试同行格式，再尝试两行格式；找不到数据行时返回 false
func ParseReport(out, mountPoint string) (quota.Record, bool) {
	lines := strings.Split(out, "\n")

	for _, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) > minColumns && tokens[0] == mountPoint {
			return dataLine(tokens[1:]).record(mountPoint)
		}
	}

	for i, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) != 1 || tokens[0] != mountPoint {
			continue
		}
		for _, next := range lines[i+1:] {
			data := strings.Fields(next)
			if len(data) == 0 {
				continue
			}
			if r, ok := dataLine(data).record(mountPoint); ok {
				return r, true
			}
			break
		}
	}

	return quota.Record{}, false
}

// clean 去掉超额标记 '*' 以及部分 Lustre 版本给继承值加的方括号
func clean(s string) string {
	return strings.Trim(strings.ReplaceAll(s, "*", ""), "[]")
}

func grace(s string) string {
	s = clean(s)
	if s == noGrace {
		return ""
	}
	return s
}
