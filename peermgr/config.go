// Package peermgr manages the set of remote peers a process is running
// clock synchronization against: per-peer state, the reliable MinDelta
// control channel, stale-peer eviction and per-peer metrics. The
// synchronization math itself lives entirely in the timesync package;
// peermgr only wires timesync.Synchronizer instances to the network.
package peermgr

import "github.com/caarlos0/env/v6"

// SettingsStruct mirrors config.SettingsStruct's env-tag pattern: every
// tunable has a sensible default so a process can run with zero
// configuration, and every field can be overridden by the environment
// variable named in its env tag.
type SettingsStruct struct {
	// WindowUsec is a sliding-window duration for Synchronizer estimators.
	// Table.Register takes its window as a parameter and does not read
	// this field.
	WindowUsec uint64 `env:"TIMESYNC_WINDOW_USEC" envDefault:"10000000"`

	// MinDeltaIntervalStartupMs is how often GetMinDeltaTS24 is sent to
	// a peer while this side's Synchronizer for that peer is not yet
	// synchronized, per spec.md's recommended startup cadence.
	MinDeltaIntervalStartupMs uint64 `env:"TIMESYNC_MINDELTA_INTERVAL_STARTUP_MS" envDefault:"500"`

	// MinDeltaIntervalSteadyMs is the cadence once this side's
	// Synchronizer for the peer is synchronized.
	MinDeltaIntervalSteadyMs uint64 `env:"TIMESYNC_MINDELTA_INTERVAL_STEADY_MS" envDefault:"2000"`

	// StaleTimeoutSec is how long a peer may go without a datagram or a
	// MinDelta exchange before the sweep job evicts it.
	StaleTimeoutSec uint64 `env:"TIMESYNC_STALE_TIMEOUT_SEC" envDefault:"60"`

	// SweepIntervalCron is the robfig/cron schedule for the stale-peer
	// eviction job.
	SweepIntervalCron string `env:"TIMESYNC_SWEEP_CRON" envDefault:"@every 30s"`
}

// Settings is the package-level configuration, populated from the
// environment at init time exactly like config.Settings.
var Settings SettingsStruct

var _ = env.Parse(&Settings)
