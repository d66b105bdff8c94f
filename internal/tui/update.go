package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"devtrack/internal/tracker"
)

func (m TrackingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case TickMsg:
		m.observations = m.tracker.Observations()
		m.state = m.tracker.State()
		m.remaining = m.tracker.Remaining()
		if m.detector != nil {
			m.alerts = m.detector.RecentAlerts(5)
		}

		// Newest observations at the top of the table.
		rows := make([]table.Row, 0, len(m.observations))
		for i := len(m.observations) - 1; i >= 0; i-- {
			obs := m.observations[i]
			status := "Offline"
			if obs.Online {
				status = "Online"
			}
			rows = append(rows, table.Row{
				obs.Time().Format("15:04:05"),
				obs.IP,
				obs.MAC,
				status,
			})
		}
		m.table.SetRows(rows)

		if m.state == tracker.StateCompleted {
			return m, tea.Quit
		}
		return m, tickCmd()
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}
