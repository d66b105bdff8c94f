package reporting

import (
	"fmt"
	"io"
	"os"
	"time"

	"devtrack/internal/anomaly"
	"devtrack/internal/models"
)

// WriteSummary prints a human-readable timeline of observations in
// input order. An empty sequence produces only the no-data message.
func WriteSummary(w io.Writer, observations []models.Observation) {
	if len(observations) == 0 {
		fmt.Fprintln(w, "No device tracking data available.")
		return
	}

	fmt.Fprintln(w, "\n--- Device Tracking Summary ---")
	for _, obs := range observations {
		status := "Offline"
		if obs.Online {
			status = "Online"
		}
		fmt.Fprintf(w, "Time: %s\n", obs.Time().Format(time.ANSIC))
		fmt.Fprintf(w, "IP: %s\n", obs.IP)
		fmt.Fprintf(w, "MAC: %s\n", obs.MAC)
		fmt.Fprintf(w, "Status: %s\n", status)
		fmt.Fprintln(w, "---")
	}
}

// GenerateSessionReport writes an HTML report of a tracking session.
// Currently supports "html" format. Returns the generated filename.
func GenerateSessionReport(observations []models.Observation, alerts []anomaly.Alert, format string) (string, error) {
	if format != "html" {
		return "", fmt.Errorf("unsupported format: %s", format)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("report_%s.html", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	html := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>devtrack Session Report - %s</title>
    <style>
        body { font-family: sans-serif; margin: 20px; color: #333; }
        h1, h2 { color: #2c3e50; }
        table { width: 100%%; border-collapse: collapse; margin-bottom: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
        tr:nth-child(even) { background-color: #f9f9f9; }
        .summary { background: #eef; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
        .offline { color: #d9534f; font-weight: bold; }
        .online { color: #5cb85c; font-weight: bold; }
        .alert { color: #d9534f; font-weight: bold; }
    </style>
</head>
<body>
    <h1>devtrack Session Report</h1>
    <div class="summary">
        <p><strong>Date:</strong> %s</p>
        <p><strong>Checks:</strong> %d</p>
        <p><strong>Uptime:</strong> %s</p>
    </div>

    <h2>Observation Timeline</h2>
    <table>
        <thead>
            <tr>
                <th>Time</th>
                <th>IP Address</th>
                <th>MAC Address</th>
                <th>Status</th>
            </tr>
        </thead>
        <tbody>
`, timestamp, time.Now().Format(time.RFC1123), len(observations), formatUptime(observations))

	if len(observations) == 0 {
		html += "            <tr><td colspan=\"4\">No observations recorded during this session.</td></tr>\n"
	} else {
		for _, obs := range observations {
			class, status := "online", "Online"
			if !obs.Online {
				class, status = "offline", "Offline"
			}
			html += fmt.Sprintf("            <tr><td>%s</td><td>%s</td><td>%s</td><td class=\"%s\">%s</td></tr>\n",
				obs.Time().Format("15:04:05"), obs.IP, obs.MAC, class, status)
		}
	}

	html += `        </tbody>
    </table>

    <h2>Anomaly Alerts</h2>
    <table>
        <thead>
            <tr>
                <th>Time</th>
                <th>Type</th>
                <th>Device</th>
                <th>Message</th>
            </tr>
        </thead>
        <tbody>
`

	if len(alerts) == 0 {
		html += "            <tr><td colspan=\"4\">No anomalies detected during this session.</td></tr>\n"
	} else {
		for _, alert := range alerts {
			html += fmt.Sprintf("            <tr><td>%s</td><td class=\"alert\">%s</td><td>%s</td><td>%s</td></tr>\n",
				alert.Timestamp.Format("15:04:05"), alert.Type, alert.Device, alert.Message)
		}
	}

	html += `        </tbody>
    </table>
</body>
</html>`

	_, err = file.WriteString(html)
	if err != nil {
		return "", err
	}

	return filename, nil
}

func formatUptime(observations []models.Observation) string {
	if len(observations) == 0 {
		return "n/a"
	}
	online := 0
	for _, obs := range observations {
		if obs.Online {
			online++
		}
	}
	return fmt.Sprintf("%.1f%%", 100*float64(online)/float64(len(observations)))
}
