package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driving"
	"github.com/custodia-labs/agenda/internal/core/stream"
	"github.com/custodia-labs/agenda/internal/logger"
)

// Ensure StateAggregator implements the interface.
var _ driving.ContactsViewModel = (*StateAggregator)(nil)

// AggregatorConfig tunes a StateAggregator.
type AggregatorConfig struct {
	// GraceWindow keeps upstream feeds alive after the last observer
	// leaves. Zero releases them immediately.
	GraceWindow time.Duration

	// ImportCount is used when an import intent passes a count <= 0.
	ImportCount int

	// RetryDelay is the pause before a failed feed is resubscribed.
	// Zero uses stream.DefaultRetryDelay.
	RetryDelay time.Duration
}

// DefaultAggregatorConfig returns the standard aggregator tuning.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		GraceWindow: domain.DefaultGraceWindow,
		ImportCount: domain.DefaultImportCount,
	}
}

// StateAggregator owns the UI state for the contact list. It combines
// the repository feed, its own loading flag and error slot, and the
// connectivity feed into one replay-latest ContactsState stream, and
// runs user intents in its own scope.
type StateAggregator struct {
	repo driving.ContactRepository

	loading *stream.State[bool]
	errMsg  *stream.State[string]
	state   *stream.Shared[domain.ContactsState]

	importCount atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// NewStateAggregator creates a new state aggregator.
func NewStateAggregator(
	repo driving.ContactRepository,
	conn driving.ConnectivityObserver,
	cfg AggregatorConfig,
) *StateAggregator {
	ctx, cancel := context.WithCancel(context.Background())
	a := &StateAggregator{
		repo:    repo,
		loading: stream.NewState(false),
		errMsg:  stream.NewState(""),
		ctx:     ctx,
		cancel:  cancel,
	}
	a.SetImportCount(cfg.ImportCount)

	combined := stream.CombineLatest4(
		repo.ObserveContacts(),
		stream.Source[bool](a.loading),
		stream.Source[string](a.errMsg),
		conn.Observe(),
		combineState,
	)
	a.state = stream.Share(combined, domain.InitialContactsState(), cfg.GraceWindow, domain.ContactsState.Equal).
		OnError(a.feedFailed)
	if cfg.RetryDelay > 0 {
		a.state.WithRetryDelay(cfg.RetryDelay)
	}
	return a
}

func combineState(
	contacts []domain.Contact,
	loading bool,
	errMsg string,
	conn domain.ConnectivityState,
) domain.ContactsState {
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return domain.ContactsState{
		Contacts:    contacts,
		IsLoading:   loading,
		Error:       errMsg,
		IsConnected: conn.IsConnected(),
	}
}

// ObserveState returns the shared state stream.
func (a *StateAggregator) ObserveState() stream.Source[domain.ContactsState] {
	return a.state
}

// Snapshot returns the most recent combined state.
func (a *StateAggregator) Snapshot() domain.ContactsState {
	return a.state.Value()
}

// SetImportCount changes the default import size. Values <= 0 restore
// domain.DefaultImportCount.
func (a *StateAggregator) SetImportCount(n int) {
	if n <= 0 {
		n = domain.DefaultImportCount
	}
	a.importCount.Store(int64(n))
}

// ImportContacts fetches count remote contacts into the store.
func (a *StateAggregator) ImportContacts(count int) {
	if count <= 0 {
		count = int(a.importCount.Load())
	}
	a.launch("import", func(ctx context.Context) {
		a.loading.Set(true)
		a.errMsg.Set("")
		defer a.loading.Set(false)

		contacts, err := a.repo.Import(ctx, count)
		if err != nil {
			a.fail("import failed", err)
			return
		}
		logger.Debug("imported %d contacts", len(contacts))
	})
}

// DeleteContact removes a contact.
func (a *StateAggregator) DeleteContact(contact domain.Contact) {
	a.launch("delete", func(ctx context.Context) {
		if err := a.repo.Delete(ctx, contact); err != nil {
			a.fail("delete failed", err)
		}
	})
}

// UpdateContact saves edits to a contact.
func (a *StateAggregator) UpdateContact(contact domain.Contact) {
	a.launch("update", func(ctx context.Context) {
		if err := a.repo.Update(ctx, contact); err != nil {
			a.fail("update failed", err)
		}
	})
}

// DismissError clears the error slot.
func (a *StateAggregator) DismissError() {
	a.errMsg.Set("")
}

// Close cancels running intents, waits for them and releases the feeds.
func (a *StateAggregator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
	a.state.Close()
}

// launch runs an intent in the aggregator's scope.
func (a *StateAggregator) launch(name string, fn func(ctx context.Context)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		logger.Debug("%s ignored: aggregator closed", name)
		return
	}
	logger.Debug("intent: %s", name)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(a.ctx)
	}()
}

// feedFailed reports a failed upstream feed in the error slot. The shared
// stream resubscribes on its own.
func (a *StateAggregator) feedFailed(err error) {
	a.fail("state feed failed", err)
}

func (a *StateAggregator) fail(prefix string, err error) {
	if a.ctx.Err() != nil {
		logger.Debug("%s after close: %v", prefix, err)
		return
	}
	logger.Warn("%s: %v", prefix, err)
	a.errMsg.Set(prefix + ": " + err.Error())
}
