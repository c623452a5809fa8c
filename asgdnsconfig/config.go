package asgdnsconfig

import (
	"context"
	"os"
	"path"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrMissingSetting = errors.New("missing required setting")

type Config struct {
	HostedZoneID string `yaml:"hosted_zone_id"`
	DomainName   string `yaml:"domain_name"`
	AWSRegion    string `yaml:"aws_region,omitempty"`
	WaitForSync  bool   `yaml:"wait_for_sync,omitempty"`
}

type LookupEnvFunc func(key string) (string, bool)

func DefaultConfigPath() (string, error) {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to find user home path")
	}

	configPath := path.Join(homePath, DEFAULT_CONFIG_FILE)
	return configPath, nil
}

func LoadFile(ctx context.Context, configPath string) (*Config, error) {
	configBytes, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := &Config{}
	err = yaml.Unmarshal(configBytes, config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	return config, nil
}

func Save(ctx context.Context, configPath string, config *Config) error {
	configBytes, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config file")
	}

	err = os.WriteFile(configPath, configBytes, 0600)
	if err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// ApplyEnv overlays any settings present in the environment on top of the
// config. Environment values always win.
func (c *Config) ApplyEnv(lookup LookupEnvFunc) error {
	if value, ok := lookup(ENV_HOSTED_ZONE_ID); ok {
		c.HostedZoneID = value
	}
	if value, ok := lookup(ENV_DOMAIN_NAME); ok {
		c.DomainName = value
	}
	if value, ok := lookup(ENV_AWS_REGION); ok {
		c.AWSRegion = value
	}
	if value, ok := lookup(ENV_WAIT_FOR_SYNC); ok && value != "" {
		waitForSync, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(err, "invalid value for %s", ENV_WAIT_FOR_SYNC)
		}
		c.WaitForSync = waitForSync
	}

	return nil
}

func (c *Config) Validate() error {
	if c.HostedZoneID == "" {
		return errors.Wrap(ErrMissingSetting, ENV_HOSTED_ZONE_ID)
	}
	if c.DomainName == "" {
		return errors.Wrap(ErrMissingSetting, ENV_DOMAIN_NAME)
	}
	return nil
}

// FromEnv builds a validated config purely from the environment, which is
// how the lambda function is configured.
func FromEnv(lookup LookupEnvFunc) (*Config, error) {
	config := &Config{}

	err := config.ApplyEnv(lookup)
	if err != nil {
		return nil, err
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

// LoadPartial reads the config file at configPath, if there is one, and
// applies the environment without requiring the record settings. A missing
// file is not an error when the path is the default one.
func LoadPartial(ctx context.Context, configPath string, lookup LookupEnvFunc) (*Config, error) {
	explicitPath := configPath != ""
	if !explicitPath {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, errors.Wrap(err, "failed to find default config path")
		}
		configPath = defaultPath
	}

	config, err := LoadFile(ctx, configPath)
	if err != nil {
		if explicitPath || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		config = &Config{}
	}

	err = config.ApplyEnv(lookup)
	if err != nil {
		return nil, err
	}

	return config, nil
}

func Load(ctx context.Context, configPath string, lookup LookupEnvFunc) (*Config, error) {
	config, err := LoadPartial(ctx, configPath, lookup)
	if err != nil {
		return nil, err
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}
