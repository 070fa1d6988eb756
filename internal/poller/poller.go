// Package poller re-checks a charge's status on a widening schedule until it
// reaches a terminal status, a check budget, or a wall-clock ceiling.
package poller

//go:generate mockgen -source=poller.go -destination=mocks/mock_poller.go -package=mocks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
)

const (
	MaxChecks   = 60
	MaxDuration = 30 * time.Minute
)

// StatusChecker is satisfied by *payment.Client.
type StatusChecker interface {
	CheckStatus(ctx context.Context, transactionID, externalCode string) (*payment.NormalizedStatus, error)
}

// StopReason tells why a poll ended.
type StopReason string

const (
	ReasonTerminal  StopReason = "terminal"
	ReasonMaxChecks StopReason = "max_checks"
	ReasonDeadline  StopReason = "deadline"
	ReasonCancelled StopReason = "cancelled"
)

// Interval is the wait after the check numbered checks (zero-based):
// 5s for checks 0-11, 10s for 12-29, 15s afterwards.
func Interval(checks int) time.Duration {
	switch {
	case checks < 12:
		return 5 * time.Second
	case checks < 30:
		return 10 * time.Second
	default:
		return 15 * time.Second
	}
}

type Poller struct {
	checker     StatusChecker
	logger      *zap.Logger
	maxChecks   int
	maxDuration time.Duration
	interval    func(int) time.Duration
}

type Option func(*Poller)

func WithLogger(l *zap.Logger) Option {
	return func(p *Poller) { p.logger = l }
}

func WithMaxChecks(n int) Option {
	return func(p *Poller) { p.maxChecks = n }
}

func WithMaxDuration(d time.Duration) Option {
	return func(p *Poller) { p.maxDuration = d }
}

// WithInterval replaces the schedule; tests use it to run in milliseconds.
func WithInterval(fn func(int) time.Duration) Option {
	return func(p *Poller) { p.interval = fn }
}

func New(checker StatusChecker, opts ...Option) *Poller {
	p := &Poller{
		checker:     checker,
		logger:      zap.NewNop(),
		maxChecks:   MaxChecks,
		maxDuration: MaxDuration,
		interval:    Interval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle controls a running poll.
type Handle struct {
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	reason   StopReason
}

// Cancel stops future checks. A check already in flight may still complete
// and deliver its update.
func (h *Handle) Cancel() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Done is closed once polling has stopped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until polling stops and returns the reason.
func (h *Handle) Wait() StopReason {
	<-h.done
	return h.reason
}

// tick is the loop state. It is copied forward on every iteration, never shared.
type tick struct {
	checks  int
	started time.Time
}

func (t tick) next() tick {
	t.checks++
	return t
}

// Poll checks transactionID immediately and then on the schedule, calling
// onUpdate with every successful result. Failed checks are logged and skipped.
func (p *Poller) Poll(ctx context.Context, transactionID, externalCode string, onUpdate func(*payment.NormalizedStatus)) *Handle {
	h := &Handle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		h.reason = p.run(ctx, h, transactionID, externalCode, onUpdate, tick{started: time.Now()})
		p.logger.Info("status polling stopped",
			zap.String("transaction_id", transactionID),
			zap.String("reason", string(h.reason)),
		)
		close(h.done)
	}()
	return h
}

func (p *Poller) run(ctx context.Context, h *Handle, transactionID, externalCode string, onUpdate func(*payment.NormalizedStatus), state tick) StopReason {
	deadline := time.NewTimer(p.maxDuration - time.Since(state.started))
	defer deadline.Stop()

	for {
		if p.check(ctx, state, transactionID, externalCode, onUpdate) {
			return ReasonTerminal
		}

		state = state.next()
		if state.checks >= p.maxChecks {
			return ReasonMaxChecks
		}

		wait := time.NewTimer(p.interval(state.checks - 1))
		select {
		case <-wait.C:
		case <-h.stop:
			wait.Stop()
			return ReasonCancelled
		case <-ctx.Done():
			wait.Stop()
			return ReasonCancelled
		case <-deadline.C:
			wait.Stop()
			return ReasonDeadline
		}
	}
}

// check runs one status lookup and reports whether the status is terminal.
func (p *Poller) check(ctx context.Context, state tick, transactionID, externalCode string, onUpdate func(*payment.NormalizedStatus)) bool {
	p.logger.Debug("checking payment status",
		zap.String("transaction_id", transactionID),
		zap.Int("check", state.checks),
		zap.Duration("elapsed", time.Since(state.started)),
	)

	status, err := p.checker.CheckStatus(ctx, transactionID, externalCode)
	if err != nil {
		p.logger.Warn("status check failed",
			zap.String("transaction_id", transactionID),
			zap.Int("check", state.checks),
			zap.Error(err),
		)
		return false
	}
	if status == nil {
		return false
	}

	if onUpdate != nil {
		onUpdate(status)
	}
	return status.Status.IsTerminal()
}
