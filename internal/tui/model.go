package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"devtrack/internal/anomaly"
	"devtrack/internal/models"
	"devtrack/internal/tracker"
)

// TickMsg drives the periodic refresh of the tracking view.
type TickMsg time.Time

type TrackingModel struct {
	tracker  *tracker.Tracker
	detector *anomaly.Detector
	cancel   func() // stops the tracking run when the user quits

	observations []models.Observation
	alerts       []anomaly.Alert
	state        tracker.State
	remaining    time.Duration
	table        table.Model
}

// NewTrackingModel builds the live view over a running tracker.
// detector may be nil when anomaly detection is disabled. cancel is
// invoked when the user quits so the polling loop stops with the UI.
func NewTrackingModel(tr *tracker.Tracker, detector *anomaly.Detector, cancel func()) TrackingModel {
	columns := []table.Column{
		{Title: "Time", Width: 10},
		{Title: "IP", Width: 18},
		{Title: "MAC", Width: 20},
		{Title: "Status", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return TrackingModel{
		tracker:  tr,
		detector: detector,
		cancel:   cancel,
		table:    t,
	}
}

func (m TrackingModel) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
