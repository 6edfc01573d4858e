// Package session owns the logged-in state and the refresh cycle:
// token becomes available -> fetch receipts -> aggregate -> notify.
//
// The original UI relied on a component re-render to kick this cycle off;
// here it is an explicit service that subscribers attach to.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"bonnetje/internal/core"
	"bonnetje/internal/sheets"
	"bonnetje/internal/tokens"
)

// ReceiptSource fetches the receipt list from the retailer API.
type ReceiptSource interface {
	Receipts(ctx context.Context) ([]core.Receipt, error)
}

// Notifier announces a completed refresh to external consumers.
type Notifier interface {
	PublishReceiptsUpdated(ctx context.Context, receipts, months int) error
}

// Service orchestrates tokens, receipt fetching and aggregation.
type Service struct {
	store    tokens.Store
	source   ReceiptSource
	notifier Notifier            // optional
	exporter sheets.SummaryWriter // optional

	mu          sync.RWMutex
	receipts    []core.Receipt
	summaries   []core.MonthlySummary
	subscribers []func()
}

// Option customizes a Service.
type Option func(*Service)

// WithNotifier attaches an AMQP publisher for refresh events.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithExporter attaches a summary exporter run after each refresh.
func WithExporter(w sheets.SummaryWriter) Option {
	return func(s *Service) { s.exporter = w }
}

func NewService(store tokens.Store, source ReceiptSource, opts ...Option) *Service {
	s := &Service{store: store, source: source}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a callback invoked after every state change. Register
// before Start; subscription is not synchronized with it.
func (s *Service) Subscribe(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Start loads the persisted slot and, when a session exists, runs the first
// refresh. A failed refresh is not fatal at startup; the user just sees the
// login form again.
func (s *Service) Start(ctx context.Context) {
	pair, err := s.store.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load token slot", "error", err)
		return
	}
	if !pair.Valid() {
		slog.InfoContext(ctx, "No stored session, login required")
		return
	}

	slog.InfoContext(ctx, "Restored session from token slot")
	if err := s.Refresh(ctx); err != nil {
		slog.WarnContext(ctx, "Initial receipts refresh failed", "error", err)
	}
}

// LoggedIn reports whether the token slot currently holds a pair. Slot
// presence is the only signal; the pair itself is never validated locally.
func (s *Service) LoggedIn(ctx context.Context) bool {
	pair, err := s.store.Load(ctx)
	return err == nil && pair.Valid()
}

// SetTokens persists a freshly obtained pair and runs the refresh cycle.
func (s *Service) SetTokens(ctx context.Context, pair *core.TokenPair) error {
	if !pair.Valid() {
		return core.ErrNotAuthenticated
	}
	if err := s.store.Save(ctx, pair); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}
	return s.Refresh(ctx)
}

// Refresh fetches the receipt list, recomputes the monthly summaries and
// notifies subscribers and external consumers.
func (s *Service) Refresh(ctx context.Context) error {
	receipts, err := s.source.Receipts(ctx)
	if err != nil {
		return err
	}

	summaries := core.AggregateMonthly(receipts)

	s.mu.Lock()
	s.receipts = receipts
	s.summaries = summaries
	s.mu.Unlock()

	slog.InfoContext(ctx, "Receipts refreshed",
		"receipts", len(receipts),
		"months", len(summaries))

	s.notifySubscribers()

	if s.notifier != nil {
		if err := s.notifier.PublishReceiptsUpdated(ctx, len(receipts), len(summaries)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish refresh event", "error", err)
		}
	}
	if s.exporter != nil {
		if err := s.exporter.WriteSummaries(ctx, summaries); err != nil {
			slog.ErrorContext(ctx, "Failed to export summaries", "error", err)
		}
	}

	return nil
}

// Logout clears the slot and drops the in-memory state.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear token slot: %w", err)
	}

	s.mu.Lock()
	s.receipts = nil
	s.summaries = nil
	s.mu.Unlock()

	slog.InfoContext(ctx, "Logged out, session cleared")
	s.notifySubscribers()
	return nil
}

func (s *Service) notifySubscribers() {
	s.mu.RLock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

// Receipts returns a copy of the current receipt list.
func (s *Service) Receipts() []core.Receipt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out
}

// Summaries returns a copy of the current monthly summaries, oldest first.
func (s *Service) Summaries() []core.MonthlySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.MonthlySummary, len(s.summaries))
	copy(out, s.summaries)
	return out
}

// Stats computes the overall statistics over the current receipt list.
func (s *Service) Stats() (core.ReceiptStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Stats(s.receipts)
}
