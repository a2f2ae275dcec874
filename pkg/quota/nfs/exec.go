package nfs

import (
	"github.com/terminus-io/quotabar/pkg/quota"
)

const (
	DefaultCommand = "quota"
)

var DefaultArgs = []string{"-s", "-u"}

// QuotaCLI wraps the multi-filesystem `quota` summary.
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

// Query 返回 `quota -s -u <user>` 的原始输出，失败时返回空字符串
func (c *QuotaCLI) Query(user string) string {
	args := append(append([]string{}, c.args...), user)
	return quota.Output(c.runner, c.command, args...)
}
