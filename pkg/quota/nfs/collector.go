package nfs

import (
	"github.com/terminus-io/quotabar/pkg/quota"
	"k8s.io/klog/v2"
)

var _ quota.SummarySource = &QuotaCLI{}

func (c *QuotaCLI) FetchAllReports(user string) []quota.Record {
	out := c.Query(user)
	if out == "" {
		return nil
	}

	records := ParseReport(out)
	klog.V(4).InfoS("Parsed NFS quota report", "user", user, "filesystems", len(records))
	return records
}
