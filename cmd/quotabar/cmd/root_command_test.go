package cmd

import (
	"bytes"
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	outputs map[string]string
	calls   [][]string
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	if out, ok := f.outputs[strings.Join(call, " ")]; ok {
		return []byte(out), nil
	}
	return nil, errors.New("exit status 1")
}

func runCommand(t *testing.T, runner *fakeRunner, opts []Option, args ...string) (int, string, string) {
	t.Helper()
	opts = append([]Option{
		WithRunner(runner),
		WithDirExists(func(string) bool { return false }),
	}, opts...)
	cmd := NewRootCommand(opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	code := execute(cmd)
	return code, stdout.String(), stderr.String()
}

func currentUser(t *testing.T) string {
	t.Helper()
	u, err := user.Current()
	if err != nil {
		t.Skipf("current user unavailable: %v", err)
	}
	if _, err := user.Lookup(u.Username); err != nil {
		t.Skipf("current user %q cannot be looked up: %v", u.Username, err)
	}
	return u.Username
}

func TestTooManyArguments(t *testing.T) {
	code, stdout, stderr := runCommand(t, &fakeRunner{}, nil, "alice", "bob")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "expected at most one username")
	assert.Contains(t, stderr, "Usage:")
}

func TestUnknownUser(t *testing.T) {
	code, stdout, stderr := runCommand(t, &fakeRunner{}, nil, "no-such-user-quotabar-test")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `user "no-such-user-quotabar-test" does not exist`)
	assert.Contains(t, stderr, "Usage:")
}

func TestInvalidColor(t *testing.T) {
	code, _, stderr := runCommand(t, &fakeRunner{}, nil, "--color", "sometimes")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid color mode")
}

func TestNoQuotaConfigured(t *testing.T) {
	name := currentUser(t)
	runner := &fakeRunner{}

	code, stdout, stderr := runCommand(t, runner, nil, "--color", "never", name)

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "NFS filesystems")
	assert.Contains(t, stdout, "Lustre filesystems")
	assert.Contains(t, stdout, "Legend:")
	assert.NotContains(t, stdout, "Space")
	assert.NotContains(t, stdout, "Files")

	// quota 一次，lfs 两次 (fastscratch2 没有用户目录)
	require.Len(t, runner.calls, 3)
	assert.Equal(t, []string{"quota", "-s", "-u", name}, runner.calls[0])
	assert.Equal(t, []string{"lfs", "quota", "-h", "-u", name, "/mnt/scratch"}, runner.calls[1])
	assert.Equal(t, []string{"lfs", "quota", "-h", "-u", name, "/mnt/fastscratch"}, runner.calls[2])
}

func TestZeroLimitLustreMount(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"lfs quota -h -u alice /mnt/scratch": "/mnt/scratch 4k 0k 0k - 1 0 0 -\n",
	}}
	lookup := WithUserLookup(func(name string) (*user.User, error) { return &user.User{Username: name}, nil })

	code, stdout, stderr := runCommand(t, runner, []Option{lookup}, "--color", "never", "alice")

	require.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Lustre filesystems")
	assert.Contains(t, stdout, "Legend:")
	assert.NotContains(t, stdout, "/mnt/scratch")
	assert.NotContains(t, stdout, "custom quota")
}

func TestLustreWithoutGraceColumns(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"lfs quota -h -u alice /mnt/scratch": "   /mnt/scratch  1.5T*  1T  2T  12345  0  0\n",
	}}
	lookup := WithUserLookup(func(name string) (*user.User, error) { return &user.User{Username: name}, nil })

	code, stdout, _ := runCommand(t, runner, []Option{lookup}, "--color", "never", "alice")

	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "/mnt/scratch  (custom quota)")
	assert.Contains(t, stdout, "150.0% of soft limit (75.0% of hard limit)")
	assert.Contains(t, stdout, "Grace  expired, the soft limit is now enforced as a hard limit")
}

func TestDefaultsToCurrentUser(t *testing.T) {
	runner := &fakeRunner{}
	code, _, _ := runCommand(t, runner, []Option{
		WithCurrentUser(func() (*user.User, error) { return &user.User{Username: "alice"}, nil }),
	}, "--color", "never")

	require.Equal(t, 0, code)
	require.NotEmpty(t, runner.calls)
	assert.Equal(t, []string{"quota", "-s", "-u", "alice"}, runner.calls[0])
}

func TestFullReport(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"quota -s -u alice": `Disk quotas for user alice (uid 1001):
     Filesystem   space   quota   limit   grace   files   quota   limit   grace
nas02:/export/data7
                2600G*  2500G   3000G   6days   250k    300k    500k
`,
		"lfs quota -h -u alice /mnt/scratch": "/mnt/scratch  3T*  1T  2T  none  10  0  0  -\n",
	}}
	cmd := NewRootCommand(
		WithRunner(runner),
		WithUserLookup(func(name string) (*user.User, error) { return &user.User{Username: name}, nil }),
		WithDirExists(func(string) bool { return false }),
	)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--color", "never", "alice"})

	require.Equal(t, 0, execute(cmd))
	out := stdout.String()

	assert.Contains(t, out, "nas02:/export/data7  (default quota)")
	assert.Contains(t, out, "Grace  6 days left before the soft limit is enforced")
	assert.Contains(t, out, "/mnt/scratch  (custom quota)")
	assert.Contains(t, out, "300.0% of soft limit (150.0% of hard limit)")
	assert.Less(t, strings.Index(out, "nas02"), strings.Index(out, "/mnt/scratch"))
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotabar.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lustre:\n  mounts:\n    - path: /lustre/work\n"), 0o644))

	runner := &fakeRunner{}
	cmd := NewRootCommand(
		WithRunner(runner),
		WithUserLookup(func(name string) (*user.User, error) { return &user.User{Username: name}, nil }),
	)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "alice"})

	require.Equal(t, 0, execute(cmd))
	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"lfs", "quota", "-h", "-u", "alice", "/lustre/work"}, runner.calls[1])
}

func TestMissingConfigFile(t *testing.T) {
	lookup := WithUserLookup(func(name string) (*user.User, error) { return &user.User{Username: name}, nil })
	code, _, stderr := runCommand(t, &fakeRunner{}, []Option{lookup}, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "alice")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to read config")
	assert.NotContains(t, stderr, "Usage:")
}
