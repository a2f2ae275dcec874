package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/terminus-io/quotabar/pkg/config"
	"github.com/terminus-io/quotabar/pkg/quota"
	"github.com/terminus-io/quotabar/pkg/render"
	"github.com/terminus-io/quotabar/pkg/reporter"
	"github.com/terminus-io/quotabar/pkg/utils"
)

// usageError 表示参数错误，需要输出用法说明
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

type options struct {
	runner      quota.Runner
	lookupUser  func(name string) (*user.User, error)
	currentUser func() (*user.User, error)
	dirExists   func(path string) bool
}

type Option func(*options)

func WithRunner(r quota.Runner) Option { return func(o *options) { o.runner = r } }
func WithUserLookup(f func(string) (*user.User, error)) Option {
	return func(o *options) { o.lookupUser = f }
}
func WithCurrentUser(f func() (*user.User, error)) Option {
	return func(o *options) { o.currentUser = f }
}
func WithDirExists(f func(string) bool) Option { return func(o *options) { o.dirExists = f } }

// NewRootCommand 构造根命令，选项用于替换外部依赖
func NewRootCommand(opts ...Option) *cobra.Command {
	o := &options{
		runner:      quota.NewExecRunner(),
		lookupUser:  user.Lookup,
		currentUser: user.Current,
		dirExists:   utils.DirExists,
	}
	for _, opt := range opts {
		opt(o)
	}

	var (
		configPath string
		colorMode  string
	)

	cmd := &cobra.Command{
		Use:   "quotabar [username]",
		Short: "Show disk quota usage as colored bars",
		Long: `quotabar shows a user's disk quota usage on NFS and Lustre filesystems.

For every filesystem it prints the used, soft and hard limits for space and
file counts, a bar relative to the hard limit and the remaining grace period
when the soft limit is exceeded. Without a username the invoking user is shown.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return &usageError{fmt.Errorf("expected at most one username, got %d arguments", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := render.ParseColorMode(colorMode)
			if err != nil {
				return &usageError{err}
			}

			username, err := resolveUser(o, args)
			if err != nil {
				return err
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			table, err := cfg.PolicyTable()
			if err != nil {
				return err
			}

			rpt := reporter.NewReporter(
				cfg.NFSSource(o.runner),
				cfg.LustreSource(o.runner),
				cfg.Lustre.Mounts,
				table,
				render.NewRenderer(cmd.OutOrStdout(), mode),
			)
			rpt.DirExists = o.dirExists
			rpt.Run(username)
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	cmd.Flags().StringVar(&configPath, "config", os.Getenv(config.EnvConfigPath), "Path to configuration file (default: built-in)")
	cmd.Flags().StringVar(&colorMode, "color", string(render.ColorAuto), "Colorize output: auto, always or never")
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	return cmd
}

func resolveUser(o *options, args []string) (string, error) {
	if len(args) == 0 {
		u, err := o.currentUser()
		if err != nil {
			return "", fmt.Errorf("failed to determine current user: %w", err)
		}
		return u.Username, nil
	}

	u, err := o.lookupUser(args[0])
	if err != nil {
		klog.V(2).InfoS("User lookup failed", "user", args[0], "err", err)
		return "", &usageError{fmt.Errorf("user %q does not exist", args[0])}
	}
	return u.Username, nil
}

// Execute 是 main.go 调用的函数，返回进程退出码
func Execute() int {
	defer klog.Flush()
	return execute(NewRootCommand())
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)

		var uerr *usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\n%s", cmd.UsageString())
		}
		return 1
	}
	return 0
}

// init 初始化 klog Flags
func init() {
	klog.InitFlags(nil)
	_ = flag.Set("logtostderr", "true")
}
