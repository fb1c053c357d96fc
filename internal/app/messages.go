package app

import (
	"time"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
	"github.com/j-veylop/journalist-leaderboard-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// LeaderboardLoadedMsg carries the manager's current ranking and its trend.
type LeaderboardLoadedMsg struct {
	Stats services.StatsEvent
	Trend models.Trend
	View  models.View
}

// TrendLoadedMsg carries refreshed per-day series.
type TrendLoadedMsg struct {
	Trend models.Trend
}

// CycleWindowMsg asks for the next window length in WindowCycle.
type CycleWindowMsg struct{}

// WindowChangedMsg reports that the ranking was recomputed for a new window.
type WindowChangedMsg struct {
	Days int
}

// RecomputedMsg reports that the cached snapshot was ranked again.
type RecomputedMsg struct {
	Day time.Time
}

// SelectedJournalistChangedMsg signals that the highlighted leaderboard row moved.
type SelectedJournalistChangedMsg struct {
	ID    string
	Index int
}

// RefreshMsg requests ranking the cached snapshot again.
type RefreshMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Message  string
	Type     NotificationType
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
