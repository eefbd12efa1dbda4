package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".secmap"
	configFileName = "config.yaml"
	envPrefix      = "SECMAP"
)

type Config struct {
	DefaultFramework string            `mapstructure:"default_framework" yaml:"default_framework"`
	OutputFormat     string            `mapstructure:"output_format" yaml:"output_format"`
	Mappings         map[string]string `mapstructure:"mappings" yaml:"mappings"`
}

func defaultConfig() *Config {
	return &Config{
		DefaultFramework: "SOC2",
		OutputFormat:     "text",
		Mappings:         make(map[string]string),
	}
}

func GetConfigPath() (string, error) {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom reads the config at path. A missing file yields the
// defaults; SECMAP_* environment variables override file values.
func LoadConfigFrom(path string) (*Config, error) {
	def := defaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("default_framework", def.DefaultFramework)
	v.SetDefault("output_format", def.OutputFormat)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	mappings := make(map[string]string, len(cfg.Mappings))
	for fw, p := range cfg.Mappings {
		mappings[strings.ToLower(fw)] = p
	}
	cfg.Mappings = mappings
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveConfigTo(path, cfg)
}

func SaveConfigTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// SetMappingsPath records the mapping file for a framework. Keys are stored
// lower-cased, matching how viper reads them back.
func (c *Config) SetMappingsPath(framework, path string) {
	c.Mappings[strings.ToLower(framework)] = path
}

func (c *Config) GetMappingsPath(framework string) string {
	return c.Mappings[strings.ToLower(framework)]
}
