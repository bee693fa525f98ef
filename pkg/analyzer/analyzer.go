// Package analyzer runs one intake submission from snapshot to outcome.
package analyzer

import (
	"context"
	"sync"

	"github.com/helmcode/patient-assistant/pkg/client"
	"github.com/helmcode/patient-assistant/pkg/intake"
	"github.com/helmcode/patient-assistant/pkg/model"
	"github.com/helmcode/patient-assistant/pkg/payload"
	"go.uber.org/zap"
)

// FallbackMessage is shown when a failure carries no message.
const FallbackMessage = "Something went wrong."

// Client sends an encoded intake and returns the insight text.
type Client interface {
	Process(ctx context.Context, p *payload.Payload) (string, error)
}

type Analyzer struct {
	client    Client
	store     *intake.Store
	logger    *zap.Logger
	observers []func(model.Outcome)

	mu      sync.Mutex
	outcome model.Outcome
}

type Option func(*Analyzer)

// WithObserver registers fn for every outcome transition, in order.
func WithObserver(fn func(model.Outcome)) Option {
	return func(a *Analyzer) { a.observers = append(a.observers, fn) }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

func New(c Client, store *intake.Store, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:  c,
		store:   store,
		logger:  zap.NewNop(),
		outcome: model.Idle(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Outcome returns the current state.
func (a *Analyzer) Outcome() model.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outcome
}

func (a *Analyzer) Loading() bool {
	return a.Outcome().State == model.StateLoading
}

// Submit freezes the store, enters Loading and posts the payload once.
// Whatever happens, the deferred settle leaves Loading as the final step,
// including when the client panics.
func (a *Analyzer) Submit(ctx context.Context) (out model.Outcome) {
	snap := a.store.Snapshot()
	a.transition(model.Loading())

	out = model.Failed(FallbackMessage)
	defer func() { a.transition(out) }()

	p, err := payload.Build(snap.Fields, snap.Files)
	if err != nil {
		out = a.fail(err)
		return out
	}

	insights, err := a.client.Process(ctx, p)
	if err != nil {
		out = a.fail(err)
		return out
	}

	a.logger.Debug("Insights received", zap.Int("length", len(insights)))
	out = model.Succeeded(insights)
	return out
}

func (a *Analyzer) fail(err error) model.Outcome {
	a.logger.Debug(client.Describe(err), zap.Error(err))
	return model.Failed(FailureMessage(err))
}

func (a *Analyzer) transition(o model.Outcome) {
	a.mu.Lock()
	a.outcome = o
	a.mu.Unlock()

	for _, fn := range a.observers {
		fn(o)
	}
}

// FailureMessage maps an error to the text shown in the error panel.
func FailureMessage(err error) string {
	if err == nil {
		return FallbackMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}
