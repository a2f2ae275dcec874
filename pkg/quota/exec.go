package quota

import (
	"errors"
	"os/exec"

	"k8s.io/klog/v2"
)

// ExecRunner runs commands on the local host.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner { return &ExecRunner{} }

// Run 只返回 stdout。
// quota 在用户超额时会以非 0 退出，此时 stdout 仍然有效，所以输出和错误一起返回，由调用方决定是否使用。
func (r *ExecRunner) Run(name string, args ...string) ([]byte, error) {
	klog.V(4).InfoS("Exec", "cmd", name, "args", args)

	out, err := exec.Command(name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			klog.V(4).InfoS("Command exited non-zero", "cmd", name, "code", exitErr.ExitCode(), "stderr", string(exitErr.Stderr))
		}
		return out, err
	}
	return out, nil
}

// Output runs the command and keeps whatever it printed, even on a non-zero exit.
// An empty string means there is nothing to parse.
func Output(r Runner, name string, args ...string) string {
	out, err := r.Run(name, args...)
	if err != nil && len(out) == 0 {
		klog.V(2).InfoS("Quota query produced no output", "cmd", name, "args", args, "err", err)
		return ""
	}
	return string(out)
}
