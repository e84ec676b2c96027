package probe

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubPinger struct {
	err   error
	calls int
}

func (s *stubPinger) Ping(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestStatusUnknownBeforeFirstCheck(t *testing.T) {
	p := New(&stubPinger{}, time.Minute)

	st := p.Status()
	if st.Upstream != "unknown" {
		t.Fatalf("expected unknown, got %q", st.Upstream)
	}
	if st.CheckedAt != nil {
		t.Fatalf("expected nil CheckedAt, got %v", st.CheckedAt)
	}
}

func TestRunOnceRecordsReachable(t *testing.T) {
	pinger := &stubPinger{}
	p := New(pinger, time.Minute)

	p.RunOnce()

	st := p.Status()
	if st.Upstream != "reachable" {
		t.Fatalf("expected reachable, got %q", st.Upstream)
	}
	if st.CheckedAt == nil {
		t.Fatal("expected CheckedAt to be set")
	}
	if pinger.calls != 1 {
		t.Fatalf("expected 1 ping, got %d", pinger.calls)
	}
}

func TestRunOnceRecordsUnreachable(t *testing.T) {
	pinger := &stubPinger{err: errors.New("connect: refused")}
	p := New(pinger, time.Minute)

	p.RunOnce()

	if st := p.Status(); st.Upstream != "unreachable" {
		t.Fatalf("expected unreachable, got %q", st.Upstream)
	}
}

func TestRecoveryAfterFailure(t *testing.T) {
	pinger := &stubPinger{err: errors.New("timeout")}
	p := New(pinger, time.Minute)

	p.RunOnce()
	pinger.err = nil
	p.RunOnce()

	if st := p.Status(); st.Upstream != "reachable" {
		t.Fatalf("expected reachable after recovery, got %q", st.Upstream)
	}
}
