package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"devtrack/internal/anomaly"
	"devtrack/internal/config"
	"devtrack/internal/discovery"
	"devtrack/internal/geo"
	"devtrack/internal/logstore"
	"devtrack/internal/models"
	"devtrack/internal/notify"
	"devtrack/internal/probe"
	"devtrack/internal/registry"
	"devtrack/internal/reporting"
	"devtrack/internal/tracker"
	"devtrack/internal/tui"
)

func main() {
	interfaceName := flag.String("i", "", "Network interface for the active ARP sweep (falls back to the OS ARP cache)")
	target := flag.String("target", "", "IP or MAC of the device to track (prompted for when omitted)")
	interval := flag.Duration("interval", 0, "Time between reachability checks (default from config, 60s)")
	duration := flag.Duration("duration", 0, "Total tracking time (default from config, 1h)")
	logPath := flag.String("log", "", "Observation log file (default from config, device_log.txt)")
	configPath := flag.String("config", "", "YAML configuration file")
	useNmap := flag.Bool("nmap", false, "Discover devices with an nmap ping scan instead of ARP")
	useICMP := flag.Bool("icmp", false, "Probe with raw ICMP sockets instead of the ping utility (needs privileges)")
	useTUI := flag.Bool("tui", false, "Show the live tracking dashboard")
	summaryPath := flag.String("summary", "", "Summarize an existing observation log and exit")
	htmlReport := flag.Bool("report", false, "Write an HTML session report when tracking ends")
	geoLookup := flag.Bool("geo", false, "Geolocate this host's public IP before tracking")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if *interval > 0 {
		cfg.Interval = config.Duration(*interval)
	}
	if *duration > 0 {
		cfg.Duration = config.Duration(*duration)
	}
	if *logPath != "" {
		cfg.LogPath = *logPath
	}

	// Summary-only mode: replay a log, print the timeline, done.
	if *summaryPath != "" {
		observations, err := logstore.New(*summaryPath).ReadAll()
		if err != nil {
			log.Fatalf("Error reading log: %v", err)
		}
		reporting.WriteSummary(os.Stdout, observations)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *geoLookup || cfg.Geo {
		printLocation()
	}

	var src discovery.Source
	switch {
	case *useNmap:
		src = discovery.NmapSource{Subnet: cfg.Subnet}
	default:
		src = discovery.Default(*interfaceName)
	}

	fmt.Println("Scanning network for devices...")
	devices := src.Discover(ctx)
	fmt.Println("\nDiscovered Devices:")
	for _, d := range devices {
		fmt.Printf("IP: %s, MAC: %s\n", d.IP, d.MAC)
	}

	identifier := *target
	if identifier == "" {
		fmt.Print("\nEnter the IP of the device you want to track: ")
		sc := bufio.NewScanner(os.Stdin)
		if !sc.Scan() {
			return
		}
		identifier = strings.TrimSpace(sc.Text())
	}

	reg := registry.New(src)
	if !reg.Add(ctx, identifier) {
		os.Exit(1)
	}
	device := reg.Devices()[0]

	detector := anomaly.NewDetector(detectorConfig(cfg.Anomaly))
	dispatcher := notify.NewDispatcher(buildChannels(cfg.Notifications)...)

	var prober probe.Prober = &probe.PingProber{}
	if *useICMP {
		prober = &probe.ICMPProber{}
	}

	store := logstore.New(cfg.LogPath)
	tr := tracker.New(device, prober, store,
		tracker.Config{Interval: cfg.Interval.Std(), Duration: cfg.Duration.Std()},
		func(obs models.Observation) {
			for _, alert := range detector.Process(obs) {
				log.Printf("Anomaly: %s", alert.Message)
				dispatcher.Dispatch(ctx, "devtrack: "+string(alert.Type), alert.Message)
			}
		})

	if *useTUI {
		runWithTUI(ctx, tr, detector)
	} else if err := tr.Run(ctx); err != nil {
		log.Printf("Tracking ended early: %v", err)
	}

	reporting.WriteSummary(os.Stdout, tr.Observations())

	if *htmlReport {
		filename, err := reporting.GenerateSessionReport(tr.Observations(), detector.RecentAlerts(20), "html")
		if err != nil {
			log.Printf("Error generating report: %v", err)
		} else {
			fmt.Printf("Session report written to %s\n", filename)
		}
	}
}

// runWithTUI runs the polling loop in the background while the
// dashboard owns the terminal. Quitting the dashboard cancels the run.
func runWithTUI(ctx context.Context, tr *tracker.Tracker, detector *anomaly.Detector) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := tr.Run(runCtx); err != nil {
			log.Printf("Tracking ended early: %v", err)
		}
	}()

	model := tui.NewTrackingModel(tr, detector, cancel)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Printf("Error running dashboard: %v", err)
	}
	cancel()
	<-done
}

func printLocation() {
	client := &geo.Client{}
	loc, err := client.Lookup()
	if err != nil {
		log.Printf("Warning: %v", err)
		return
	}
	fmt.Printf("Public IP: %s (%s, %s, %s) at %.4f,%.4f\n",
		loc.IP, loc.City, loc.Region, loc.Country, loc.Latitude, loc.Longitude)
}

// buildChannels maps the notification config onto channel values;
// anything disabled becomes the null channel so dispatch stays total.
func buildChannels(cfg config.Notifications) []notify.Channel {
	var channels []notify.Channel

	if cfg.Email.Enabled {
		port := cfg.Email.Port
		if port == 0 {
			port = 587
		}
		channels = append(channels, notify.EmailChannel{
			Server:    fmt.Sprintf("%s:%d", cfg.Email.Server, port),
			Host:      cfg.Email.Server,
			Username:  cfg.Email.Username,
			Password:  cfg.Email.Password,
			From:      cfg.Email.Username,
			Recipient: cfg.Email.Recipient,
		})
	}
	if cfg.SMS.Enabled {
		channels = append(channels, notify.SMSChannel{PhoneNumber: cfg.SMS.PhoneNumber})
	}
	if cfg.Telegram.Enabled {
		channels = append(channels, notify.TelegramChannel{
			BotToken: cfg.Telegram.BotToken,
			ChatID:   cfg.Telegram.ChatID,
		})
	}
	if len(channels) == 0 {
		channels = append(channels, notify.NullChannel{})
	}
	return channels
}

func detectorConfig(cfg config.Anomaly) anomaly.Config {
	out := anomaly.DefaultConfig()
	if cfg.FlapThreshold > 0 {
		out.FlapThreshold = cfg.FlapThreshold
	}
	if cfg.FlapWindow > 0 {
		out.FlapWindow = cfg.FlapWindow.Std()
	}
	if cfg.OfflineStreak > 0 {
		out.OfflineStreak = cfg.OfflineStreak
	}
	if cfg.Cooldown > 0 {
		out.Cooldown = cfg.Cooldown.Std()
	}
	return out
}
