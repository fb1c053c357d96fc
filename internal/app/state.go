// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/services"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Type      NotificationType
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks what the UI is still waiting for.
type LoadingState struct {
	// Initial stays true until the first snapshot is ranked.
	Initial bool
	// Window is true while a window change is being recomputed.
	Window bool
}

// State is shared by the root model and every tab.
type State struct {
	LastUpdated time.Time
	Stats       *services.StatsEvent
	Trend       models.Trend
	View        models.View
	Loading     LoadingState

	notifications   []Notification
	notificationSeq int
	selectedIndex   int
	mu              sync.RWMutex
}

// NewState creates the shared state in its initial loading form.
func NewState() *State {
	return &State{
		View: models.View{
			Leaderboard: models.Leaderboard{Journalists: []models.ContributorTotal{}},
			Loading:     true,
		},
		notifications: make([]Notification, 0),
		Loading:       LoadingState{Initial: true},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "window":
		s.Loading.Window = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial || s.Loading.Window
}

// IsInitialLoading returns true until the first ranking arrives.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Window {
		resources = append(resources, "window")
	}
	return resources
}

// SetView replaces the displayed leaderboard. A loaded view clears the
// initial loading flag and the selection is clamped to the new rows.
func (s *State) SetView(v models.View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.Journalists == nil {
		v.Journalists = []models.ContributorTotal{}
	}
	s.View = v
	if !v.Loading {
		s.Loading.Initial = false
		s.LastUpdated = time.Now()
	}
	s.selectedIndex = clampIndex(s.selectedIndex, len(v.Journalists))
}

// GetView returns the displayed leaderboard.
func (s *State) GetView() models.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.View
}

// GetJournalists returns a copy of the ranked journalists.
func (s *State) GetJournalists() []models.ContributorTotal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ContributorTotal, len(s.View.Journalists))
	copy(out, s.View.Journalists)
	return out
}

// GetJournalistCount returns the number of ranked journalists.
func (s *State) GetJournalistCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.View.Journalists)
}

// GetWindowDays returns the window of the displayed leaderboard.
func (s *State) GetWindowDays() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.View.WindowDays
}

// SetTrend updates the per-day series.
func (s *State) SetTrend(trend models.Trend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Trend = trend
}

// GetTrend returns the per-day series.
func (s *State) GetTrend() models.Trend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Trend
}

// SetStats updates the statistics.
func (s *State) SetStats(stats services.StatsEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stats = &stats
}

// GetStats returns the current statistics.
func (s *State) GetStats() *services.StatsEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Stats
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = activeNotifications(s.notifications)
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return activeNotifications(s.notifications)
}

func activeNotifications(all []Notification) []Notification {
	active := make([]Notification, 0, len(all))
	for _, n := range all {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns when the displayed ranking was received.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}

// GetSelectedIndex returns the selected leaderboard row.
func (s *State) GetSelectedIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedIndex
}

// SetSelectedIndex selects a leaderboard row, clamped to the ranking.
func (s *State) SetSelectedIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedIndex = clampIndex(idx, len(s.View.Journalists))
}

// GetSelectedJournalist returns the selected row, if any.
func (s *State) GetSelectedJournalist() (models.ContributorTotal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selectedIndex < 0 || s.selectedIndex >= len(s.View.Journalists) {
		return models.ContributorTotal{}, false
	}
	return s.View.Journalists[s.selectedIndex], true
}

func clampIndex(idx, n int) int {
	if n == 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
