package reporter

import (
	"path/filepath"

	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"github.com/terminus-io/quotabar/pkg/config"
	"github.com/terminus-io/quotabar/pkg/policy"
	"github.com/terminus-io/quotabar/pkg/quota"
	"github.com/terminus-io/quotabar/pkg/render"
	"github.com/terminus-io/quotabar/pkg/utils"
)

const (
	nfsTitle    = "NFS filesystems"
	lustreTitle = "Lustre filesystems"
)

type Reporter struct {
	nfs      quota.SummarySource
	lustre   quota.MountSource
	mounts   []config.MountConfig
	policies policy.Table
	renderer *render.Renderer

	// DirExists 用于判断条件挂载点上的用户目录是否存在，测试时可替换
	DirExists func(path string) bool
}

func NewReporter(nfs quota.SummarySource, lustre quota.MountSource, mounts []config.MountConfig,
	policies policy.Table, renderer *render.Renderer) *Reporter {
	return &Reporter{
		nfs:       nfs,
		lustre:    lustre,
		mounts:    mounts,
		policies:  policies,
		renderer:  renderer,
		DirExists: utils.DirExists,
	}
}

// Run 依次输出 NFS 和 Lustre 两个分区以及图例。
// 单个文件系统没有数据时直接跳过，不影响其余部分。
func (r *Reporter) Run(user string) {
	klog.V(2).InfoS("Generating quota report", "user", user)

	r.renderer.Header(nfsTitle)
	for _, rec := range r.nfs.FetchAllReports(user) {
		r.render(rec)
	}

	r.renderer.Header(lustreTitle)
	for _, mountPoint := range r.LustreMounts(user) {
		rec, ok := r.lustre.FetchReport(user, mountPoint)
		if !ok {
			klog.V(2).InfoS("Skipping filesystem without quota data", "user", user, "mount", mountPoint)
			continue
		}
		r.render(rec)
	}

	r.renderer.Legend()
}

// LustreMounts 返回需要查询的挂载点，带 RequireUserDir 的挂载点只有用户目录存在时才保留
func (r *Reporter) LustreMounts(user string) []string {
	return lo.FilterMap(r.mounts, func(m config.MountConfig, _ int) (string, bool) {
		if m.RequireUserDir && !r.DirExists(filepath.Join(m.Path, user)) {
			klog.V(4).InfoS("User directory not found, skipping mount", "user", user, "mount", m.Path)
			return "", false
		}
		return m.Path, true
	})
}

func (r *Reporter) render(rec quota.Record) {
	tag := r.policies.Classify(rec.MountPoint, rec.SoftSpace, rec.HardSpace, rec.SoftFiles, rec.HardFiles)
	r.renderer.Record(rec, tag)
}
