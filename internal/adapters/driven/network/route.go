package network

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"runtime"
	"strconv"
	"strings"
)

const (
	procRoute     = "/proc/net/route"
	procIPv6Route = "/proc/net/ipv6_route"

	// rtfUp is the RTF_UP route flag.
	rtfUp = 0x1
)

// hasDefaultRoute reports whether the host has a usable default route.
func hasDefaultRoute(_ context.Context) (bool, error) {
	if runtime.GOOS != "linux" {
		return hasActiveInterface()
	}

	ok, err := readRouteFile(procRoute, parseIPv4Routes)
	if err != nil || ok {
		return ok, err
	}
	ok, err = readRouteFile(procIPv6Route, parseIPv6Routes)
	if errors.Is(err, os.ErrNotExist) {
		// IPv6 disabled.
		return false, nil
	}
	return ok, err
}

func readRouteFile(path string, parse func(io.Reader) (bool, error)) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return parse(f)
}

// parseIPv4Routes scans /proc/net/route for an up route to 0.0.0.0/0.
//
//	Iface Destination Gateway Flags RefCnt Use Metric Mask ...
func parseIPv4Routes(r io.Reader) (bool, error) {
	sc := bufio.NewScanner(r)
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 8 {
			continue
		}
		if fields[0] == "lo" || fields[1] != "00000000" || fields[7] != "00000000" {
			continue
		}
		flags, err := strconv.ParseUint(fields[3], 16, 32)
		if err != nil {
			continue
		}
		if flags&rtfUp != 0 {
			return true, nil
		}
	}
	return false, sc.Err()
}

// parseIPv6Routes scans /proc/net/ipv6_route for an up ::/0 route.
//
//	dest destLen src srcLen nextHop metric refCnt use flags iface
func parseIPv6Routes(r io.Reader) (bool, error) {
	const anyAddr = "00000000000000000000000000000000"
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 10 {
			continue
		}
		if fields[0] != anyAddr || fields[1] != "00" || fields[9] == "lo" {
			continue
		}
		flags, err := strconv.ParseUint(fields[8], 16, 32)
		if err != nil {
			continue
		}
		if flags&rtfUp != 0 {
			return true, nil
		}
	}
	return false, sc.Err()
}

// hasActiveInterface is the portable fallback used where no routing
// table is readable.
func hasActiveInterface() (bool, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false, fmt.Errorf("listing interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ipNet, ok := addr.(*net.IPNet); ok && ipNet.IP.IsGlobalUnicast() {
				return true, nil
			}
		}
	}
	return false, nil
}

// probe dials addr over TCP and reports whether it answered.
func probe(ctx context.Context, addr string) bool {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
