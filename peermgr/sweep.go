package peermgr

import (
	"net"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically evicts peers that have gone quiet, the same
// pattern as globals.Cron wraps cron.New(cron.WithChain(cron.Recover(...)))
// for derohe's own background maintenance jobs.
type Sweeper struct {
	cron  *cron.Cron
	table *Table
}

// NewSweeper builds a Sweeper over table. It does not start running
// until Start is called.
func NewSweeper(table *Table) *Sweeper {
	return &Sweeper{
		cron:  cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		table: table,
	}
}

// Start schedules the eviction job on Settings.SweepIntervalCron and
// begins running it in the background.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(Settings.SweepIntervalCron, s.evictStale)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the background job, waiting for any in-flight run to
// finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) evictStale() {
	now := time.Now()
	timeout := time.Duration(Settings.StaleTimeoutSec) * time.Second

	var stale []*net.UDPAddr
	s.table.Range(func(addr *net.UDPAddr, p *Peer) bool {
		if p.IdleSince(now) > timeout {
			stale = append(stale, addr)
		}
		return true
	})

	for _, addr := range stale {
		s.table.Remove(addr)
	}
}
