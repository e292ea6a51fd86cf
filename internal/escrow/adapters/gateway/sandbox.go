package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"africonnect/internal/escrow/ports"
)

// Decider decides the fate of a sandbox charge. Returning an error declines it.
type Decider func(req ports.ChargeRequest) error

// ApproveAll is the default Decider.
func ApproveAll(ports.ChargeRequest) error { return nil }

// Sandbox settles charges in memory. Charges are idempotent per key: a
// repeated key returns the first outcome without deciding again.
type Sandbox struct {
	decide Decider
	delay  time.Duration

	mu      sync.Mutex
	settled map[string]ports.ChargeResult
}

type SandboxOption func(*Sandbox)

func WithDecider(d Decider) SandboxOption {
	return func(s *Sandbox) {
		if d != nil {
			s.decide = d
		}
	}
}

// WithDelay simulates processor latency. The delay honours ctx.
func WithDelay(d time.Duration) SandboxOption {
	return func(s *Sandbox) {
		s.delay = d
	}
}

func NewSandbox(opts ...SandboxOption) *Sandbox {
	s := &Sandbox{
		decide:  ApproveAll,
		settled: make(map[string]ports.ChargeResult),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sandbox) Charge(ctx context.Context, req ports.ChargeRequest) (ports.ChargeResult, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ports.ChargeResult{}, ports.NewExternalError(ports.ClassifyTransportError(ctx.Err()), collaborator, "sandbox charge interrupted", ctx.Err())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if res, ok := s.settled[req.IdempotencyKey]; ok {
		return res, nil
	}
	if err := s.decide(req); err != nil {
		return ports.ChargeResult{}, ports.NewExternalError(ports.ErrorDeclined, collaborator, "sandbox declined charge", err)
	}
	res := ports.ChargeResult{SettlementID: "sbx_" + uuid.NewString()}
	s.settled[req.IdempotencyKey] = res
	return res, nil
}

// Charges returns how many distinct charges settled.
func (s *Sandbox) Charges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.settled)
}
