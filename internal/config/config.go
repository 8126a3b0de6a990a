// Package config loads and persists agent configuration.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AgentID             string `mapstructure:"agent_id" yaml:"agent_id"`
	ServerURL           string `mapstructure:"server_url" yaml:"server_url"`
	AuthToken           string `mapstructure:"auth_token" yaml:"auth_token"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds" yaml:"poll_interval_seconds"`
	GPUResolver         string `mapstructure:"gpu_resolver" yaml:"gpu_resolver"`
	LogLevel            string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat           string `mapstructure:"log_format" yaml:"log_format"`
}

func Default() *Config {
	return &Config{
		PollIntervalSeconds: 5,
		GPUResolver:         "auto",
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// Load reads config from cfgFile, or from the platform config directory and
// the working directory when cfgFile is empty. PROCSCOPE_* environment
// variables override file values. A missing file is not an error; defaults
// apply.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("agent")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("PROCSCOPE")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to the default config path.
func Save(cfg *Config) error {
	return SaveTo(cfg, "")
}

// SaveTo writes cfg as yaml, restricted to owner-only access since it
// carries the auth token.
func SaveTo(cfg *Config, cfgFile string) error {
	cfgPath := cfgFile
	if cfgPath == "" {
		cfgPath = filepath.Join(configDir(), "agent.yaml")
	}

	if dir := filepath.Dir(cfgPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(cfgPath, data, 0600)
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "ProcScope")
	case "darwin":
		return "/Library/Application Support/ProcScope"
	default:
		return "/etc/procscope"
	}
}
