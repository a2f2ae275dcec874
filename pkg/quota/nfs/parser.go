package nfs

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/terminus-io/quotabar/pkg/quota"
	"github.com/terminus-io/quotabar/pkg/utils"
	"k8s.io/klog/v2"
)

// quota -s 典型输出:
//
//	Disk quotas for user alice (uid 1001):
//	     Filesystem   space   quota   limit   grace   files   quota   limit   grace
//	nas01:/export/data1
//	                 2600G*  2500G   3000G   6days    250k    300k    500k
//	     /dev/sda1    120M    450M    500M             12k     90k    100k
//
// 没有宽限期时 grace 列整列缺失，后面的字段整体左移一位。
var filesUsedPattern = regexp.MustCompile(`^[0-9]+[kKmM]?[*+]?$`)

// dataLine 是数据行按空白切分后的原始 token
type dataLine []string

type lineShape int

const (
	// files 在下标 3，没有空间宽限期
	shapeNoSpaceGrace lineShape = iota
	// 下标 3 是空间宽限期，files 在下标 4
	shapeSpaceGrace
)

// fields 是一行数据解析后的 8 个逻辑字段，缺失的宽限期为空字符串
type fields struct {
	used, soft, hard, spaceGrace string
	files, fileSoft, fileHard    string
	filesGrace                   string
}

func (d dataLine) shape() lineShape {
	if len(d) > 3 && filesUsedPattern.MatchString(d[3]) {
		return shapeNoSpaceGrace
	}
	return shapeSpaceGrace
}

func (d dataLine) resolve() (fields, bool) {
	var f fields
	var rest []string

	switch d.shape() {
	case shapeNoSpaceGrace:
		if len(d) < 6 {
			return f, false
		}
		f.used, f.soft, f.hard = d[0], d[1], d[2]
		rest = d[3:]
	case shapeSpaceGrace:
		if len(d) < 7 {
			return f, false
		}
		f.used, f.soft, f.hard, f.spaceGrace = d[0], d[1], d[2], d[3]
		rest = d[4:]
	}

	f.files, f.fileSoft, f.fileHard = rest[0], rest[1], rest[2]
	if len(rest) > 3 {
		f.filesGrace = rest[3]
	}
	return f, true
}

func (f fields) record(mountPoint string) quota.Record {
	return quota.Record{
		MountPoint: mountPoint,
		UsedSpace:  utils.ParseSize(f.used),
		SoftSpace:  utils.ParseSize(f.soft),
		HardSpace:  utils.ParseSize(f.hard),
		SpaceGrace: f.spaceGrace,
		UsedFiles:  utils.ParseCount(f.files),
		SoftFiles:  utils.ParseCount(f.fileSoft),
		HardFiles:  utils.ParseCount(f.fileHard),
		FilesGrace: f.filesGrace,
	}
}

// ParseReport 解析 quota 汇总输出，按出现顺序返回每个文件系统的记录。
// 无法识别的数据行记录日志后跳过。
func ParseReport(out string) []quota.Record {
	var (
		records []quota.Record
		pending string
	)

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 || isHeader(line, tokens) {
			continue
		}

		var mountPoint string
		var data dataLine
		switch {
		case len(tokens) == 1 && isFilesystem(tokens[0]):
			// 文件系统名太长，数据在下一行
			pending = tokens[0]
			continue
		case isFilesystem(tokens[0]):
			mountPoint, data = tokens[0], tokens[1:]
		case pending != "":
			mountPoint, data = pending, tokens
		default:
			continue
		}
		pending = ""

		f, ok := data.resolve()
		if !ok {
			klog.V(4).InfoS("Skipping unrecognized quota line", "filesystem", mountPoint, "line", line)
			continue
		}
		records = append(records, f.record(mountPoint))
	}
	return records
}

func isHeader(line string, tokens []string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "Disk quotas for") || tokens[0] == "Filesystem"
}

func isFilesystem(token string) bool {
	return strings.ContainsAny(token, "/:")
}
