package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"devtrack/internal/models"
)

// ScanConfig controls the active ARP sweep.
type ScanConfig struct {
	// RateLimit introduces a delay between ARP requests to avoid overrunning buffers.
	// Defaults to 50µs if unset or <= 0.
	RateLimit time.Duration
	// IdleWait is how long to wait for late replies after sending probes.
	// Defaults to 500ms if unset or <= 0.
	IdleWait time.Duration
	// MaxHosts caps how many hosts we will probe in large subnets to avoid long scans.
	// Defaults to 4096 if unset. Set negative to disable the cap.
	MaxHosts int
	// Promisc controls whether we open the interface in promiscuous mode.
	// Defaults to true if unset.
	Promisc *bool
}

func applyDefaults(cfg *ScanConfig) ScanConfig {
	if cfg == nil {
		cfg = &ScanConfig{}
	}
	out := *cfg
	if out.RateLimit <= 0 {
		out.RateLimit = 50 * time.Microsecond
	}
	if out.IdleWait <= 0 {
		out.IdleWait = 500 * time.Millisecond
	}
	if out.MaxHosts == 0 {
		out.MaxHosts = 4096
	}
	if out.MaxHosts > 0 && out.MaxHosts < 512 {
		out.MaxHosts = 512
	}
	if out.Promisc == nil {
		out.Promisc = ptrBool(true)
	}
	return out
}

// ARPScanner actively sweeps the interface subnet with ARP requests
// and collects the replies.
type ARPScanner struct {
	Interface string
	Config    *ScanConfig
}

// Discover runs the sweep. It satisfies the Source contract: errors
// are reported on the console and degrade to an empty result.
func (s *ARPScanner) Discover(ctx context.Context) []models.Device {
	devices, err := s.scan(ctx)
	if err != nil {
		log.Printf("Warning: ARP scan on %s failed: %v", s.Interface, err)
		return nil
	}
	return devices
}

func (s *ARPScanner) scan(ctx context.Context) ([]models.Device, error) {
	config := applyDefaults(s.Config)

	iface, err := net.InterfaceByName(s.Interface)
	if err != nil {
		return nil, fmt.Errorf("could not get interface: %w", err)
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("could not get interface addresses: %w", err)
	}

	var localIP net.IP
	var localNet *net.IPNet
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok {
			if ip4 := ipnet.IP.To4(); ip4 != nil {
				localIP = ip4
				localNet = ipnet
				break
			}
		}
	}
	if localIP == nil {
		return nil, errors.New("no IPv4 address found on interface")
	}

	handle, err := pcap.OpenLive(s.Interface, 65536, *config.Promisc, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("could not open handle: %w", err)
	}
	defer handle.Close()

	if err := handle.SetBPFFilter("arp"); err != nil {
		return nil, fmt.Errorf("could not set BPF filter: %w", err)
	}

	found := make(map[string]models.Device)
	var mu sync.Mutex
	doneChan := make(chan struct{})

	// Collect replies while we sweep.
	go func() {
		src := gopacket.NewPacketSource(handle, layers.LayerTypeEthernet)
		in := src.Packets()
		for {
			select {
			case <-ctx.Done():
				return
			case <-doneChan:
				return
			case packet, ok := <-in:
				if !ok {
					return
				}
				arpLayer := packet.Layer(layers.LayerTypeARP)
				if arpLayer == nil {
					continue
				}
				arp := arpLayer.(*layers.ARP)
				if arp.Operation != layers.ARPReply {
					continue
				}
				ip := net.IP(arp.SourceProtAddress)
				if !localNet.Contains(ip) || ip.Equal(localIP) {
					continue
				}
				mac := net.HardwareAddr(arp.SourceHwAddress)
				mu.Lock()
				if _, exists := found[ip.String()]; !exists {
					found[ip.String()] = models.Device{IP: ip.String(), MAC: mac.String()}
				}
				mu.Unlock()
			}
		}
	}()

	// Sweep every address in the subnet, skipping network, broadcast
	// and our own address.
	currentIP := make(net.IP, len(localIP))
	copy(currentIP, localIP)
	mask := localNet.Mask
	for i := range currentIP {
		if i < len(mask) {
			currentIP[i] &= mask[i]
		}
	}

	broadcastIP := make(net.IP, len(currentIP))
	copy(broadcastIP, currentIP)
	for i := range broadcastIP {
		if i < len(mask) {
			broadcastIP[i] |= ^mask[i]
		}
	}

	ticker := time.NewTicker(config.RateLimit)
	defer ticker.Stop()

	first := true
	scanned := 0
	for ; localNet.Contains(currentIP); inc(currentIP) {
		if config.MaxHosts > 0 && scanned >= config.MaxHosts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		if first {
			first = false
			continue // network address
		}
		if currentIP.Equal(broadcastIP) || currentIP.Equal(localIP) {
			continue
		}

		if err := sendARPRequest(handle, iface, localIP, currentIP); err != nil {
			continue
		}
		scanned++
	}

	// Give stragglers a moment to answer.
	waitTimer := time.NewTimer(config.IdleWait)
	defer waitTimer.Stop()
	select {
	case <-ctx.Done():
	case <-waitTimer.C:
	}
	close(doneChan)

	mu.Lock()
	defer mu.Unlock()
	result := make([]models.Device, 0, len(found))
	for _, d := range found {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return ipLess(result[i].IP, result[j].IP)
	})
	return result, nil
}

func ipLess(a, b string) bool {
	ipa, ipb := net.ParseIP(a).To16(), net.ParseIP(b).To16()
	if ipa == nil || ipb == nil {
		return a < b
	}
	for i := range ipa {
		if ipa[i] != ipb[i] {
			return ipa[i] < ipb[i]
		}
	}
	return false
}

func inc(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}

func ptrBool(v bool) *bool {
	return &v
}

// sendARPRequest sends a single broadcast ARP request for dstIP.
func sendARPRequest(handle *pcap.Handle, iface *net.Interface, srcIP, dstIP net.IP) error {
	eth := layers.Ethernet{
		SrcMAC:       iface.HardwareAddr,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(iface.HardwareAddr),
		SourceProtAddress: []byte(srcIP.To4()),
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte(dstIP.To4()),
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	if err := gopacket.SerializeLayers(buf, opts, &eth, &arp); err != nil {
		return err
	}
	return handle.WritePacketData(buf.Bytes())
}
