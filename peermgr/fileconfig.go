package peermgr

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is an optional YAML overlay for SettingsStruct, for
// deployments that prefer a config file over environment variables.
// Only fields present in the file are applied; the env-sourced defaults
// in Settings are left untouched otherwise.
type FileConfig struct {
	WindowUsec                *uint64 `yaml:"window_usec"`
	MinDeltaIntervalStartupMs *uint64 `yaml:"mindelta_interval_startup_ms"`
	MinDeltaIntervalSteadyMs  *uint64 `yaml:"mindelta_interval_steady_ms"`
	StaleTimeoutSec           *uint64 `yaml:"stale_timeout_sec"`
	SweepIntervalCron         *string `yaml:"sweep_cron"`
}

// LoadFileConfig reads path as YAML and applies any fields it sets on
// top of the current Settings.
func LoadFileConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("peermgr: reading config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("peermgr: parsing config file: %w", err)
	}

	applyFileConfig(&fc)
	return nil
}

func applyFileConfig(fc *FileConfig) {
	if fc.WindowUsec != nil {
		Settings.WindowUsec = *fc.WindowUsec
	}
	if fc.MinDeltaIntervalStartupMs != nil {
		Settings.MinDeltaIntervalStartupMs = *fc.MinDeltaIntervalStartupMs
	}
	if fc.MinDeltaIntervalSteadyMs != nil {
		Settings.MinDeltaIntervalSteadyMs = *fc.MinDeltaIntervalSteadyMs
	}
	if fc.StaleTimeoutSec != nil {
		Settings.StaleTimeoutSec = *fc.StaleTimeoutSec
	}
	if fc.SweepIntervalCron != nil {
		Settings.SweepIntervalCron = *fc.SweepIntervalCron
	}
}
