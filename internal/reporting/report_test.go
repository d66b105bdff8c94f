package reporting

import (
	"os"
	"strings"
	"testing"
	"time"

	"devtrack/internal/anomaly"
	"devtrack/internal/models"
)

func TestWriteSummaryEmpty(t *testing.T) {
	var b strings.Builder
	WriteSummary(&b, nil)

	out := b.String()
	if !strings.Contains(out, "No device tracking data available.") {
		t.Errorf("missing no-data message, got %q", out)
	}
	if strings.Contains(out, "IP:") {
		t.Error("empty summary should print no record blocks")
	}
}

func TestWriteSummaryRecords(t *testing.T) {
	observations := []models.Observation{
		{Timestamp: 1700000000, IP: "192.168.1.50", MAC: "AA:BB:CC:DD:EE:FF", Online: true},
		{Timestamp: 1700000060, IP: "192.168.1.50", MAC: "AA:BB:CC:DD:EE:FF", Online: false},
	}

	var b strings.Builder
	WriteSummary(&b, observations)
	out := b.String()

	if got := strings.Count(out, "IP: 192.168.1.50"); got != 2 {
		t.Errorf("expected 2 record blocks, found %d", got)
	}
	onlineIdx := strings.Index(out, "Status: Online")
	offlineIdx := strings.Index(out, "Status: Offline")
	if onlineIdx == -1 || offlineIdx == -1 {
		t.Fatalf("missing status lines in %q", out)
	}
	if onlineIdx > offlineIdx {
		t.Error("records printed out of input order")
	}
}

func TestGenerateSessionReport(t *testing.T) {
	observations := []models.Observation{
		{Timestamp: 1700000000, IP: "192.168.1.50", MAC: "AA:BB:CC:DD:EE:FF", Online: true},
		{Timestamp: 1700000060, IP: "192.168.1.50", MAC: "AA:BB:CC:DD:EE:FF", Online: false},
	}
	alerts := []anomaly.Alert{
		{
			Type:      anomaly.TypeExtendedOffline,
			Device:    "192.168.1.50",
			Message:   "Device 192.168.1.50 offline for 5 consecutive checks",
			Timestamp: time.Unix(1700000300, 0),
		},
	}

	filename, err := GenerateSessionReport(observations, alerts, "html")
	if err != nil {
		t.Fatalf("Failed to generate report: %v", err)
	}
	defer os.Remove(filename) // Cleanup

	content, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read report file: %v", err)
	}
	html := string(content)

	if !strings.Contains(html, "devtrack Session Report") {
		t.Error("Report missing title")
	}
	if !strings.Contains(html, "192.168.1.50") {
		t.Error("Report missing device IP")
	}
	if !strings.Contains(html, "50.0%") {
		t.Error("Report missing uptime percentage")
	}
	if !strings.Contains(html, "EXTENDED_OFFLINE") {
		t.Error("Report missing anomaly alert")
	}
}

func TestGenerateSessionReportUnsupportedFormat(t *testing.T) {
	if _, err := GenerateSessionReport(nil, nil, "pdf"); err == nil {
		t.Error("unsupported format should fail")
	}
}
