// Package network implements driven.NetworkMonitor by polling the host's
// routing table.
//
// On Linux the default route is read from /proc/net/route and
// /proc/net/ipv6_route. Elsewhere an up, non-loopback interface with a
// global unicast address counts as a route. An optional TCP probe marks a
// network as losing when the route exists but the probe target is
// unreachable.
package network
