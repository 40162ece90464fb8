package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Schedule describes the optional cron self-trigger: when to fire and the
// trigger attributes to fire with. The command is always the processing
// sentinel; a schedule only exists to fetch data.
type Schedule struct {
	Cron       string            `yaml:"cron"`
	Attributes map[string]string `yaml:"attributes"`
}

// LoadSchedule reads and validates a schedule YAML file.
func LoadSchedule(path string) (*Schedule, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-controlled
	if err != nil {
		return nil, fmt.Errorf("read schedule %s: %w", path, err)
	}

	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schedule %s: %w", path, err)
	}
	if s.Cron == "" {
		return nil, fmt.Errorf("schedule %s: cron expression is required", path)
	}
	if len(s.Attributes) == 0 {
		return nil, fmt.Errorf("schedule %s: attributes are required", path)
	}
	return &s, nil
}
