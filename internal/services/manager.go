// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/text/language"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/config"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/db"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/leaderboard"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/locale"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/logger"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/metrics"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/source"
)

type (
	// LeaderboardUpdatedEvent is emitted whenever the ranking is recomputed.
	LeaderboardUpdatedEvent struct {
		View models.View
	}

	// LeaderChangedEvent is emitted when a different journalist takes first place.
	LeaderChangedEvent struct {
		Previous models.ContributorTotal
		Current  models.ContributorTotal
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Error   error
		Service string
	}

	// StatsEvent describes the snapshot behind the current ranking.
	StatsEvent struct {
		UpdatedAt time.Time
		Source    string
		Days      int
		Entries   int
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (LeaderboardUpdatedEvent) isServiceEvent() {}
func (LeaderChangedEvent) isServiceEvent()      {}
func (ErrorEvent) isServiceEvent()              {}
func (StatsEvent) isServiceEvent()              {}

// notify raises a desktop notification.
var notify = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager owns the source subscription, recomputes the ranking on every
// update and fans events out to subscribers.
type Manager struct {
	source      source.Source
	aggregator  *leaderboard.Aggregator
	database    *db.DB
	registry    *prometheus.Registry
	unsubscribe source.Unsubscribe
	cancel      context.CancelFunc
	updates     chan source.Update
	stopChan    chan struct{}
	ready       chan struct{}
	failed      chan error
	subscribers []chan<- ServiceEvent
	snapshot    models.Snapshot
	view        models.View
	tag         language.Tag
	wg          sync.WaitGroup
	mu          sync.RWMutex
	readyOnce   sync.Once
	closeOnce   sync.Once
	windowDays  int
	notify      bool
}

// NewManager builds the configured source and aggregator and starts the subscription.
func NewManager(cfg *config.Config) (*Manager, error) {
	tag := locale.Resolve(cfg.Locale)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	agg := leaderboard.New(
		leaderboard.WithDateLayout(locale.DateLayout(tag)),
		leaderboard.WithObserver(leaderboard.Observers(
			leaderboard.LogObserver{},
			metrics.New(registry),
		)),
	)

	var database *db.DB
	var src source.Source

	switch cfg.Source {
	case config.SourceSQLite:
		var err error
		database, err = db.New(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		src = source.NewSQLite(database, cfg.PollInterval)

	case config.SourceFirebase:
		fb, err := source.NewFirebase(source.FirebaseConfig{
			URL:       cfg.FirebaseURL,
			Node:      cfg.SnapshotNode,
			AuthToken: cfg.FirebaseAuthToken,
		})
		if err != nil {
			return nil, err
		}
		src = fb

	default:
		src = source.NewFile(cfg.SnapshotPath, cfg.SnapshotNode)
	}

	m := newManager(src, agg, cfg.WindowDays)
	m.database = database
	m.registry = registry
	m.tag = tag
	m.notify = cfg.NotifyLeaderChange

	if err := m.start(context.Background()); err != nil {
		if database != nil {
			_ = database.Close()
		}
		return nil, err
	}

	if cfg.MetricsAddr != "" {
		m.serveMetrics(cfg.MetricsAddr)
	}

	return m, nil
}

// newManager creates a manager that has not subscribed yet.
func newManager(src source.Source, agg *leaderboard.Aggregator, windowDays int) *Manager {
	if windowDays <= 0 {
		windowDays = leaderboard.DefaultWindowDays
	}
	return &Manager{
		source:     src,
		aggregator: agg,
		tag:        language.AmericanEnglish,
		updates:    make(chan source.Update, 1),
		stopChan:   make(chan struct{}),
		ready:      make(chan struct{}),
		failed:     make(chan error, 1),
		windowDays: windowDays,
		view: models.View{
			Leaderboard: models.Leaderboard{
				Journalists: []models.ContributorTotal{},
				WindowDays:  windowDays,
			},
			Loading: true,
		},
	}
}

// start subscribes to the source and begins routing its updates.
func (m *Manager) start(ctx context.Context) error {
	ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go m.routeEvents()

	unsubscribe, err := m.source.Subscribe(ctx, func(u source.Update) {
		select {
		case m.updates <- u:
		case <-m.stopChan:
		}
	})
	if err != nil {
		m.cancel()
		close(m.stopChan)
		m.wg.Wait()
		return fmt.Errorf("failed to subscribe to %s source: %w", m.source.Name(), err)
	}
	m.unsubscribe = unsubscribe

	logger.Info("Subscribed to daily scores", "source", m.source.Name(), "location", m.source.Location())
	return nil
}

func (m *Manager) serveMetrics(addr string) {
	ctx, cancel := context.WithCancel(context.Background())
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := metrics.Serve(ctx, addr, m.registry); err != nil {
			logger.Error("Metrics server failed", "error", err)
			m.broadcast(ErrorEvent{Service: "metrics", Error: err})
		}
	}()
	go func() {
		<-m.stopChan
		cancel()
	}()
}

// routeEvents turns source updates into service events.
func (m *Manager) routeEvents() {
	defer m.wg.Done()
	for {
		select {
		case u := <-m.updates:
			m.handleUpdate(u)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleUpdate(u source.Update) {
	if u.Err != nil {
		logger.Warn("Source update failed", "source", m.source.Name(), "error", u.Err)
		select {
		case m.failed <- u.Err:
		default:
		}
		m.broadcast(ErrorEvent{Service: m.source.Name(), Error: u.Err})
		return
	}

	at := u.At
	if at.IsZero() {
		at = time.Now()
	}

	m.mu.Lock()
	previous := m.view
	m.snapshot = u.Snapshot
	m.view = models.View{
		Leaderboard: m.aggregator.Aggregate(u.Snapshot, m.windowDays),
		LastUpdated: at,
	}
	view := m.view
	m.mu.Unlock()

	m.readyOnce.Do(func() { close(m.ready) })

	m.broadcast(LeaderboardUpdatedEvent{View: view})
	m.broadcast(m.Stats())
	m.checkLeader(previous, view)
}

// checkLeader reports a change of first place between two loaded rankings.
func (m *Manager) checkLeader(previous, current models.View) {
	if previous.Loading {
		return
	}
	before, ok := previous.Leader()
	if !ok {
		return
	}
	after, ok := current.Leader()
	if !ok || after.ID == before.ID {
		return
	}

	m.broadcast(LeaderChangedEvent{Previous: before, Current: after})

	if m.notify {
		title := fmt.Sprintf("New leader: %s", after.Name)
		body := fmt.Sprintf("%s (%s) leads with %s points over the last %d days",
			after.Name, after.Publication, locale.FormatPoints(m.tag, after.Points), current.WindowDays)
		if err := notify(title, body); err != nil {
			logger.Warn("Leader notification failed", "error", err)
		}
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
// A closed channel yields nil, which Bubble Tea ignores.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Current returns the latest view. Before the first snapshot it is loading and empty.
func (m *Manager) Current() models.View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view
}

// WaitForFirst blocks until the first ranking is available, the source
// reports an error first, or ctx ends.
func (m *Manager) WaitForFirst(ctx context.Context) (models.View, error) {
	select {
	case <-m.ready:
		return m.Current(), nil
	default:
	}

	select {
	case <-m.ready:
		return m.Current(), nil
	case err := <-m.failed:
		return models.View{}, err
	case <-m.stopChan:
		return models.View{}, errors.New("manager closed")
	case <-ctx.Done():
		return models.View{}, fmt.Errorf("waiting for first snapshot: %w", ctx.Err())
	}
}

// Recompute ranks the cached snapshot again, sliding the window to the
// current clock. It does nothing before the first snapshot.
func (m *Manager) Recompute() {
	m.mu.Lock()
	if m.view.Loading {
		m.mu.Unlock()
		return
	}
	previous := m.view
	m.view.Leaderboard = m.aggregator.Aggregate(m.snapshot, m.windowDays)
	view := m.view
	m.mu.Unlock()

	m.broadcast(LeaderboardUpdatedEvent{View: view})
	m.checkLeader(previous, view)
}

// WindowDays returns the current window length.
func (m *Manager) WindowDays() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.windowDays
}

// SetWindowDays changes the window and recomputes from the cached snapshot.
func (m *Manager) SetWindowDays(days int) {
	if days <= 0 {
		days = leaderboard.DefaultWindowDays
	}

	m.mu.Lock()
	m.windowDays = days
	m.view.WindowDays = days
	m.mu.Unlock()

	m.Recompute()
}

// Trend returns per-day points for the current top journalists.
func (m *Manager) Trend() models.Trend {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.view.Journalists))
	for _, j := range m.view.Journalists {
		ids = append(ids, j.ID)
	}
	return m.aggregator.Trend(m.snapshot, m.windowDays, ids)
}

// Stats describes the cached snapshot.
func (m *Manager) Stats() StatsEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return StatsEvent{
		UpdatedAt: m.view.LastUpdated,
		Source:    m.source.Name(),
		Days:      m.snapshot.Len(),
		Entries:   m.snapshot.EntryCount(),
	}
}

// SourceName returns the kind of the active source.
func (m *Manager) SourceName() string {
	return m.source.Name()
}

// SourceLocation returns where the active source reads from.
func (m *Manager) SourceLocation() string {
	return m.source.Location()
}

// Locale returns the display locale.
func (m *Manager) Locale() language.Tag {
	return m.tag
}

// Database returns the database instance, nil unless the source is sqlite.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close releases the source subscription, then stops routing and closes subscribers.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		if m.cancel != nil {
			m.cancel()
		}
		close(m.stopChan)
		m.wg.Wait()

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.database != nil {
			err = m.database.Close()
		}
	})
	return err
}
