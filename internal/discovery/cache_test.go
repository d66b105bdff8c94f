package discovery

import (
	"strings"
	"testing"
)

func TestParseProcNetARP(t *testing.T) {
	table := `IP address       HW type     Flags       HW address            Mask     Device
192.168.1.1      0x1         0x2         a4:2b:b0:c9:1e:01     *        eth0
192.168.1.77     0x1         0x0         00:00:00:00:00:00     *        eth0
192.168.1.50     0x1         0x2         aa:bb:cc:dd:ee:ff     *        eth0
`
	devices := parseProcNetARP(strings.NewReader(table))
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d: %v", len(devices), devices)
	}
	if devices[0].IP != "192.168.1.1" || devices[0].MAC != "a4:2b:b0:c9:1e:01" {
		t.Errorf("unexpected first device: %+v", devices[0])
	}
	if devices[1].IP != "192.168.1.50" {
		t.Errorf("incomplete entry should be skipped, got %+v", devices[1])
	}
}

func TestParseARPOutputWindows(t *testing.T) {
	out := `
Interface: 192.168.1.10 --- 0xb
  Internet Address      Physical Address      Type
  192.168.1.1           a4-2b-b0-c9-1e-01     dynamic
  192.168.1.50          aa-bb-cc-dd-ee-ff     dynamic
  224.0.0.22            01-00-5e-00-00-16     static
`
	devices := parseARPOutput(out)
	if len(devices) != 3 {
		t.Fatalf("expected 3 devices, got %d: %v", len(devices), devices)
	}
	// net.ParseMAC normalizes dashes to colons.
	if devices[0].MAC != "a4:2b:b0:c9:1e:01" {
		t.Errorf("MAC not normalized: %q", devices[0].MAC)
	}
}

func TestParseARPOutputBSD(t *testing.T) {
	out := `? (192.168.1.1) at a4:2b:b0:c9:1e:01 on en0 ifscope [ethernet]
? (192.168.1.99) at (incomplete) on en0 ifscope [ethernet]
router.lan (192.168.1.254) at aa:bb:cc:dd:ee:ff on en0 ifscope [ethernet]
`
	devices := parseARPOutput(out)
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d: %v", len(devices), devices)
	}
	if devices[1].IP != "192.168.1.254" || devices[1].MAC != "aa:bb:cc:dd:ee:ff" {
		t.Errorf("unexpected device: %+v", devices[1])
	}
}

func TestParseNmapOutput(t *testing.T) {
	out := `Starting Nmap 7.94 ( https://nmap.org ) at 2024-01-01 10:00 UTC
Nmap scan report for router.lan (192.168.1.1)
Host is up (0.0010s latency).
MAC Address: A4:2B:B0:C9:1E:01 (Vendor)
Nmap scan report for 192.168.1.50
Host is up (0.050s latency).
MAC Address: AA:BB:CC:DD:EE:FF (Unknown)
Nmap scan report for 192.168.1.10
Host is up.
Nmap done: 256 IP addresses (3 hosts up) scanned in 2.50 seconds
`
	devices := parseNmapOutput(out)
	if len(devices) != 3 {
		t.Fatalf("expected 3 devices, got %d: %v", len(devices), devices)
	}
	if devices[0].IP != "192.168.1.1" || devices[0].MAC != "A4:2B:B0:C9:1E:01" {
		t.Errorf("unexpected first device: %+v", devices[0])
	}
	// The scanning host has no MAC line.
	if devices[2].IP != "192.168.1.10" || devices[2].MAC != "Unknown" {
		t.Errorf("host without MAC should be Unknown: %+v", devices[2])
	}
}
