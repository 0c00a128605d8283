// Package config loads errbridge configuration files.
package config

import (
	"fmt"
	"os"

	"github.com/drone/envsubst/v2"
	"gopkg.in/yaml.v2"

	"github.com/errbridge/errbridge/pkg/eventtarget"
)

// Config is the root of an errbridge configuration file.
type Config struct {
	Target eventtarget.Config `yaml:"target"`
}

// UnmarshalYAML implements yaml.Unmarshaler for Config.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	// An absent target block gets the defaults.
	c.Target = eventtarget.DefaultConfig

	type plain Config
	return unmarshal((*plain)(c))
}

// Validate performs semantic validation after unmarshaling.
func (c *Config) Validate() error {
	return c.Target.Validate()
}

// LoadFile reads a file and passes the contents to LoadBytes.
func LoadFile(filename string, expandEnvVars bool, c *Config) error {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return LoadBytes(buf, expandEnvVars, c)
}

// LoadBytes unmarshals a config from buf, optionally expanding ${var}
// references against the environment first. Unknown fields are rejected.
func LoadBytes(buf []byte, expandEnvVars bool, c *Config) error {
	if expandEnvVars {
		expanded, err := envsubst.Eval(string(buf), os.Getenv)
		if err != nil {
			return fmt.Errorf("error expanding environment: %w", err)
		}
		buf = []byte(expanded)
	}
	if err := yaml.UnmarshalStrict(buf, c); err != nil {
		return err
	}
	return c.Validate()
}
