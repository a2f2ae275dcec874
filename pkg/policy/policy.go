package policy

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/terminus-io/quotabar/pkg/utils"
)

type Tag string

const (
	BothDefault      Tag = "both-default"
	DefaultSpaceOnly Tag = "default-space-only"
	DefaultFilesOnly Tag = "default-files-only"
	Custom           Tag = "custom"
)

// spaceTolerance 是空间阈值比较允许的相对误差 (quota -s 输出有四舍五入)
const spaceTolerance = 0.01

// Spec 是配置文件中的一条默认配额策略，数值保持工具输出的写法，如 "2500G"、"300k"
type Spec struct {
	Prefix    string `yaml:"prefix"`
	SoftSpace string `yaml:"soft_space"`
	HardSpace string `yaml:"hard_space"`
	SoftFiles string `yaml:"soft_files"`
	HardFiles string `yaml:"hard_files"`
}

// Policy 是解析后的默认配额，空间单位 MiB
type Policy struct {
	Prefix    string
	SoftSpace float64
	HardSpace float64
	SoftFiles int64
	HardFiles int64
}

// Table 按配置顺序匹配，先匹配者优先
type Table []Policy

func (s Spec) Compile() (Policy, error) {
	if s.Prefix == "" {
		return Policy{}, fmt.Errorf("policy prefix is empty")
	}
	p := Policy{
		Prefix:    s.Prefix,
		SoftSpace: utils.ParseSize(s.SoftSpace),
		HardSpace: utils.ParseSize(s.HardSpace),
		SoftFiles: utils.ParseCount(s.SoftFiles),
		HardFiles: utils.ParseCount(s.HardFiles),
	}
	if p.SoftSpace > p.HardSpace {
		return Policy{}, fmt.Errorf("policy %s: soft space %q exceeds hard space %q", s.Prefix, s.SoftSpace, s.HardSpace)
	}
	if p.SoftFiles > p.HardFiles {
		return Policy{}, fmt.Errorf("policy %s: soft files %q exceeds hard files %q", s.Prefix, s.SoftFiles, s.HardFiles)
	}
	return p, nil
}

func Compile(specs []Spec) (Table, error) {
	t := make(Table, 0, len(specs))
	for _, s := range specs {
		p, err := s.Compile()
		if err != nil {
			return nil, err
		}
		t = append(t, p)
	}
	return t, nil
}

// Lookup 找到挂载点对应的策略，NFS 的 host:/path 只比较路径部分
func (t Table) Lookup(mountPoint string) (Policy, bool) {
	path := mountPoint
	if i := strings.Index(path, ":"); i >= 0 {
		path = path[i+1:]
	}
	return lo.Find(t, func(p Policy) bool {
		return strings.HasPrefix(path, p.Prefix)
	})
}

// Classify 判断记录的阈值是否为该挂载点的默认配额
func (t Table) Classify(mountPoint string, softSpace, hardSpace float64, softFiles, hardFiles int64) Tag {
	p, ok := t.Lookup(mountPoint)
	if !ok {
		return Custom
	}

	space := near(softSpace, p.SoftSpace) && near(hardSpace, p.HardSpace)
	files := softFiles == p.SoftFiles && hardFiles == p.HardFiles

	switch {
	case space && files:
		return BothDefault
	case space:
		return DefaultSpaceOnly
	case files:
		return DefaultFilesOnly
	default:
		return Custom
	}
}

func near(got, want float64) bool {
	if want == 0 {
		return got == 0
	}
	return math.Abs(got-want) <= math.Abs(want)*spaceTolerance
}
