package probe

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
)

// Pinger checks upstream reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe periodically checks that the upstream weather API is reachable and
// remembers the result for health reporting. It never participates in
// request handling; the gateway stays stateless per query.
type Probe struct {
	scheduler *gocron.Scheduler
	pinger    Pinger
	interval  time.Duration

	reachable atomic.Bool
	lastCheck atomic.Int64 // unix seconds, 0 until the first check
}

// New creates a Probe that checks the upstream every interval.
func New(pinger Pinger, interval time.Duration) *Probe {
	return &Probe{
		scheduler: gocron.NewScheduler(time.UTC),
		pinger:    pinger,
		interval:  interval,
	}
}

// Start schedules the periodic check and runs one immediately in the
// background.
func (p *Probe) Start() error {
	seconds := int(p.interval.Seconds())
	if seconds <= 0 {
		seconds = 300
	}

	_, err := p.scheduler.Every(seconds).Seconds().Do(p.RunOnce)
	if err != nil {
		return err
	}
	p.scheduler.StartAsync()
	go p.RunOnce()
	return nil
}

// RunOnce performs a single reachability check.
func (p *Probe) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := p.pinger.Ping(ctx)
	p.reachable.Store(err == nil)
	p.lastCheck.Store(time.Now().UTC().Unix())
	if err != nil {
		log.Printf("probe: upstream check failed: %v", err)
	}
}

// Stop stops the scheduler and cancels any future checks.
func (p *Probe) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}

// Status is the last observed upstream state.
type Status struct {
	Upstream  string     `json:"upstream"` // "unknown", "reachable" or "unreachable"
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

// Status reports the result of the most recent check.
func (p *Probe) Status() Status {
	st := Status{Upstream: "unknown"}
	if ts := p.lastCheck.Load(); ts > 0 {
		t := time.Unix(ts, 0).UTC()
		st.CheckedAt = &t
		if p.reachable.Load() {
			st.Upstream = "reachable"
		} else {
			st.Upstream = "unreachable"
		}
	}
	return st
}
