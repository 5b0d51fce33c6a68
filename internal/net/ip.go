package net

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ShareScheme prefixes links that open a studio joined to a remote gallery.
const ShareScheme = "coloring://"

// GetOutgoingIP finds the preferred local IP address for the host to share.
// No packets are sent; dialing UDP only selects a route.
func GetOutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return FirstIPv4().String()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// ShareLink builds the link a host hands out to other studios.
func ShareLink(ip string, port int) string {
	return ShareScheme + net.JoinHostPort(ip, strconv.Itoa(port))
}

// IsShareLink reports whether arg looks like a share link.
func IsShareLink(arg string) bool {
	return strings.HasPrefix(arg, ShareScheme)
}

// ParseShareLink returns the host:port carried by link.
func ParseShareLink(link string) (string, error) {
	addr, ok := strings.CutPrefix(link, ShareScheme)
	if !ok {
		return "", fmt.Errorf("not a %s link: %q", ShareScheme, link)
	}
	addr = strings.TrimSuffix(addr, "/")
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("bad share link %q: %w", link, err)
	}
	if host == "" {
		return "", fmt.Errorf("bad share link %q: missing host", link)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return "", fmt.Errorf("bad share link %q: port %q", link, port)
	}
	return addr, nil
}
