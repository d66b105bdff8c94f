package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Margin(0, 1)

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Margin(0, 1)
)

func (m TrackingModel) View() string {
	device := m.tracker.Device()
	title := titleStyle.Render(fmt.Sprintf("devtrack - Tracking: %s (%s)", device.IP, device.MAC))

	// Session panel
	online := 0
	for _, obs := range m.observations {
		if obs.Online {
			online++
		}
	}
	session := fmt.Sprintf("State: %s\nChecks: %d (%d online)\nRemaining: %s",
		m.state, len(m.observations), online, m.remaining.Round(time.Second))
	sessionBox := infoStyle.Render(session)

	// Observation table
	obsBox := infoStyle.Render("Observations\n" + m.table.View())

	// Alerts panel
	var alertStrs []string
	for _, a := range m.alerts {
		alertStrs = append(alertStrs, fmt.Sprintf("[%s] %s", a.Timestamp.Format("15:04:05"), a.Message))
	}
	if len(alertStrs) == 0 {
		alertStrs = append(alertStrs, "No anomalies detected.")
	}
	alertBox := alertStyle.Render("Alerts:\n" + strings.Join(alertStrs, "\n"))

	row1 := lipgloss.JoinHorizontal(lipgloss.Top, sessionBox, alertBox)
	body := lipgloss.JoinVertical(lipgloss.Left, title, row1, obsBox)

	return body + "\nPress q to quit."
}
