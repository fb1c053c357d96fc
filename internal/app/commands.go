package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// WindowCycle is the sequence of window lengths the window key steps through.
var WindowCycle = []int{7, 30, 90}

// NextWindow returns the window after current in WindowCycle. A length that
// is not part of the cycle moves to the first entry larger than it.
func NextWindow(current int) int {
	for i, days := range WindowCycle {
		if days == current {
			return WindowCycle[(i+1)%len(WindowCycle)]
		}
	}
	for _, days := range WindowCycle {
		if days > current {
			return days
		}
	}
	return WindowCycle[0]
}

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadLeaderboardCmd reads the manager's current ranking.
func loadLeaderboardCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return LeaderboardLoadedMsg{
			View:  mgr.Current(),
			Trend: mgr.Trend(),
			Stats: mgr.Stats(),
		}
	}
}

// loadTrendCmd reads the per-day series for the current top journalists.
func loadTrendCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return TrendLoadedMsg{Trend: mgr.Trend()}
	}
}

// setWindowCmd recomputes the ranking for a new window length.
func setWindowCmd(mgr *services.Manager, days int) tea.Cmd {
	return func() tea.Msg {
		mgr.SetWindowDays(days)
		return WindowChangedMsg{Days: mgr.WindowDays()}
	}
}

// recomputeCmd ranks the cached snapshot again against the current clock.
func recomputeCmd(mgr *services.Manager, day time.Time) tea.Cmd {
	return func() tea.Msg {
		mgr.Recompute()
		return RecomputedMsg{Day: day}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(notifType NotificationType, message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     notifType,
			Message:  message,
			Duration: duration,
		}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands provides a public interface to the command functions.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// LoadLeaderboard returns a command that reads the current ranking.
// It is nil without a manager.
func (c *Commands) LoadLeaderboard() tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return loadLeaderboardCmd(c.manager)
}

// SetWindow returns a command that recomputes for a new window length.
func (c *Commands) SetWindow(days int) tea.Cmd {
	if c.manager == nil {
		return nil
	}
	return setWindowCmd(c.manager, days)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}
