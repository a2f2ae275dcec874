package lustre

import (
	"github.com/terminus-io/quotabar/pkg/quota"
)

const (
	DefaultCommand = "lfs"
)

var DefaultArgs = []string{"quota", "-h", "-u"}

// QuotaCLI wraps `lfs quota` for one Lustre mount per call.
type QuotaCLI struct {
	runner  quota.Runner
	command string
	args    []string
}

func NewQuotaCLI(runner quota.Runner, command string, args []string) *QuotaCLI {
	if command == "" {
		command = DefaultCommand
		args = DefaultArgs
	}
	return &QuotaCLI{runner: runner, command: command, args: args}
}

// Query 执行 `lfs quota -h -u <user> <mount>`，失败或挂载点不可访问时返回空字符串
func (c *QuotaCLI) Query(user, mountPoint string) string {
	args := append(append([]string{}, c.args...), user, mountPoint)
	return quota.Output(c.runner, c.command, args...)
}
