package lustre

import (
	"github.com/terminus-io/quotabar/pkg/quota"
	"k8s.io/klog/v2"
)

var _ quota.MountSource = &QuotaCLI{}

func (c *QuotaCLI) FetchReport(user, mountPoint string) (quota.Record, bool) {
	out := c.Query(user, mountPoint)
	if out == "" {
		return quota.Record{}, false
	}

	r, ok := ParseReport(out, mountPoint)
	if !ok {
		klog.V(2).InfoS("No quota data line found", "user", user, "mount", mountPoint)
	}
	return r, ok
}
