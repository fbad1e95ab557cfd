package timesync

import (
	"fmt"

	"github.com/go-logr/logr"
)

// logger is the package-level logger. No code in this package writes to
// it (the core estimation algorithm never logs). Mirrors the teacher's
// package-level logr.Logger singleton, discarding by default.
var logger logr.Logger = logr.Discard()

// SetLogger stores l as the package-level logger. It has no effect on
// Counter/WindowedMin/Synchronizer semantics; DebugString only formats a
// string and does not write to the logger.
func SetLogger(l logr.Logger) {
	logger = l
}

// DebugString renders a one-line snapshot of a Synchronizer's state for
// logging, e.g. logger.Info(s.DebugString()).
func (s *Synchronizer) DebugString() string {
	return fmt.Sprintf("synchronized=%t minOWDUsec=%d clockDriftUsec=%d",
		s.synchronized, s.GetMinimumOneWayDelayUsec(), s.clockDriftCorrection)
}
