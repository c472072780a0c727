package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig represents the structure of config.yaml.
// Only the agent tuning knobs live here; endpoints and credentials stay
// in the environment.
type FileConfig struct {
	Agent struct {
		Location       string  `yaml:"location"`
		TempThreshold  float64 `yaml:"temp_threshold"`
		DurationChecks int     `yaml:"duration_checks"`
		CheckInterval  string  `yaml:"check_interval"`
	} `yaml:"agent"`
	Model struct {
		Name        string  `yaml:"name"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"model"`
}

// LoadFile loads configuration overrides from a YAML file
func LoadFile(filepath string) (*FileConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config FileConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("error parsing YAML: %v", err)
	}

	return &config, nil
}

// ApplyFile overlays non-zero file values onto the environment-derived
// configuration. The file only wins when the operator passed it
// explicitly on the command line.
func (c *Config) ApplyFile(file *FileConfig) error {
	if file.Agent.Location != "" {
		c.Weather.Location = file.Agent.Location
	}
	if file.Agent.TempThreshold != 0 {
		c.Weather.TempThreshold = file.Agent.TempThreshold
	}
	if file.Agent.DurationChecks != 0 {
		c.Weather.DurationChecks = file.Agent.DurationChecks
	}
	if file.Agent.CheckInterval != "" {
		interval, err := parseInterval(file.Agent.CheckInterval)
		if err != nil {
			return err
		}
		c.Weather.CheckInterval = interval
	}
	if file.Model.Name != "" {
		c.Model.Model = file.Model.Name
	}
	if file.Model.MaxTokens != 0 {
		c.Model.MaxTokens = file.Model.MaxTokens
	}
	if file.Model.Temperature != 0 {
		c.Model.Temperature = file.Model.Temperature
	}
	return nil
}

func parseInterval(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid check_interval '%s': %v", s, err)
	}
	return d, nil
}
