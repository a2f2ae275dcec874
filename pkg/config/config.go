package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/terminus-io/quotabar/pkg/policy"
	"github.com/terminus-io/quotabar/pkg/quota"
	"github.com/terminus-io/quotabar/pkg/quota/lustre"
	"github.com/terminus-io/quotabar/pkg/quota/nfs"
)

//go:embed default.yaml
var defaultYAML []byte

const EnvConfigPath = "QUOTABAR_CONFIG"

type Config struct {
	NFS      CommandConfig `yaml:"nfs"`
	Lustre   LustreConfig  `yaml:"lustre"`
	Policies []policy.Spec `yaml:"policies"`
}

type CommandConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type LustreConfig struct {
	CommandConfig `yaml:",inline"`
	Mounts        []MountConfig `yaml:"mounts"`
}

type MountConfig struct {
	Path string `yaml:"path"`

	// RequireUserDir 为 true 时只有 <path>/<user> 存在才查询该挂载点
	RequireUserDir bool `yaml:"require_user_dir"`
}

// Default 返回内置配置
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultYAML, cfg); err != nil {
		panic(fmt.Sprintf("invalid embedded config: %v", err))
	}
	return cfg
}

// Load 读取配置文件，path 为空时使用内置配置。
// 文件中缺省的部分由内置配置补齐。
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	klog.V(2).InfoS("Loaded config", "path", path, "lustreMounts", len(cfg.Lustre.Mounts), "policies", len(cfg.Policies))
	return cfg, nil
}

// 默认配置
func (c *Config) SetDefaults() {
	def := Default()

	if c.NFS.Command == "" {
		c.NFS = def.NFS
	}
	if c.Lustre.Command == "" {
		c.Lustre.CommandConfig = def.Lustre.CommandConfig
	}
	if c.Lustre.Mounts == nil {
		c.Lustre.Mounts = def.Lustre.Mounts
	}
	if c.Policies == nil {
		c.Policies = def.Policies
	}
}

func (c *Config) Validate() error {
	for i, m := range c.Lustre.Mounts {
		if m.Path == "" {
			return fmt.Errorf("lustre.mounts[%d]: path is empty", i)
		}
	}
	if _, err := c.PolicyTable(); err != nil {
		return err
	}
	return nil
}

func (c *Config) PolicyTable() (policy.Table, error) {
	return policy.Compile(c.Policies)
}

func (c *Config) NFSSource(runner quota.Runner) *nfs.QuotaCLI {
	return nfs.NewQuotaCLI(runner, c.NFS.Command, c.NFS.Args)
}

func (c *Config) LustreSource(runner quota.Runner) *lustre.QuotaCLI {
	return lustre.NewQuotaCLI(runner, c.Lustre.Command, c.Lustre.Args)
}
