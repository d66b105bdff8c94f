package discovery

import (
	"bufio"
	"context"
	"io"
	"log"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"devtrack/internal/models"
)

const procNetArpFile = "/proc/net/arp"

// CacheSource reads the operating system's ARP cache. It needs no
// elevated privileges and works without libpcap, at the cost of only
// seeing hosts the kernel has talked to recently. On Linux it reads
// /proc/net/arp directly; elsewhere it shells out to `arp -a`.
type CacheSource struct{}

func (CacheSource) Discover(ctx context.Context) []models.Device {
	if runtime.GOOS == "linux" {
		f, err := os.Open(procNetArpFile)
		if err != nil {
			log.Printf("Warning: could not read ARP cache: %v", err)
			return nil
		}
		defer f.Close()
		return parseProcNetARP(f)
	}

	out, err := exec.CommandContext(ctx, "arp", "-a").Output()
	if err != nil {
		log.Printf("Warning: arp command failed: %v", err)
		return nil
	}
	return parseARPOutput(string(out))
}

// parseProcNetARP parses the Linux /proc/net/arp table. Incomplete
// entries (flags 0x0, all-zero MAC) are dropped.
func parseProcNetARP(r io.Reader) []models.Device {
	var devices []models.Device
	s := bufio.NewScanner(r)
	s.Scan() // header
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) < 4 {
			continue
		}
		ip, mac := fields[0], fields[3]
		if mac == "00:00:00:00:00:00" {
			continue
		}
		if _, err := net.ParseMAC(mac); err != nil {
			continue
		}
		devices = append(devices, models.Device{IP: ip, MAC: mac})
	}
	return devices
}

// parseARPOutput parses `arp -a` text. It accepts both the Windows
// table form ("192.168.1.1   aa-bb-cc-dd-ee-ff   dynamic") and the
// BSD/macOS form ("? (192.168.1.1) at aa:bb:cc:dd:ee:ff on en0").
func parseARPOutput(out string) []models.Device {
	var devices []models.Device
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)

		// BSD form: hostname (ip) at mac ...
		if len(fields) >= 4 && fields[2] == "at" {
			ip := strings.Trim(fields[1], "()")
			if net.ParseIP(ip) == nil {
				continue
			}
			mac := fields[3]
			if _, err := net.ParseMAC(mac); err != nil {
				// macOS prints "(incomplete)" for unresolved entries.
				continue
			}
			devices = append(devices, models.Device{IP: ip, MAC: mac})
			continue
		}

		// Windows form: ip mac type
		if len(fields) >= 3 && net.ParseIP(fields[0]) != nil {
			hw, err := net.ParseMAC(fields[1])
			if err != nil {
				continue
			}
			devices = append(devices, models.Device{IP: fields[0], MAC: hw.String()})
		}
	}
	return devices
}

// NmapSource discovers hosts with an nmap ping scan of the configured
// subnet. Requires nmap on PATH.
type NmapSource struct {
	Subnet string
}

func (s NmapSource) Discover(ctx context.Context) []models.Device {
	subnet := s.Subnet
	if subnet == "" {
		subnet = "192.168.1.0/24"
	}
	out, err := exec.CommandContext(ctx, "nmap", "-sn", subnet).Output()
	if err != nil {
		if execErr, ok := err.(*exec.Error); ok && execErr.Err == exec.ErrNotFound {
			log.Print("Warning: nmap not installed; install nmap for network scanning")
		} else {
			log.Printf("Warning: nmap scan failed: %v", err)
		}
		return nil
	}
	return parseNmapOutput(string(out))
}

// parseNmapOutput extracts hosts from `nmap -sn` text. A host line
// without a following "MAC Address:" line (typically the scanning
// machine itself) is reported with an unknown MAC.
func parseNmapOutput(out string) []models.Device {
	var devices []models.Device
	var pending string
	flush := func(mac string) {
		if pending == "" {
			return
		}
		devices = append(devices, models.Device{IP: pending, MAC: mac})
		pending = ""
	}
	for _, line := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(line, "Nmap scan report for"):
			flush(models.UnknownMAC)
			fields := strings.Fields(line)
			pending = strings.Trim(fields[len(fields)-1], "()")
		case strings.Contains(line, "MAC Address:"):
			rest := strings.SplitN(line, "MAC Address: ", 2)
			if len(rest) == 2 {
				flush(strings.Fields(rest[1])[0])
			}
		}
	}
	flush(models.UnknownMAC)
	return devices
}

// Default picks the best available source for this platform: the
// active ARP sweep when an interface is given, otherwise the OS ARP
// cache.
func Default(ifaceName string) Source {
	if ifaceName != "" {
		return &ARPScanner{Interface: ifaceName}
	}
	return CacheSource{}
}
