package tool

import (
	"context"
	"log/slog"
	"strings"

	"netbot/internal/device"
	"netbot/internal/domain"
)

// RouteTableTool returns the IPv4 or IPv6 routing table. Any input other
// than a case-insensitive "ipv6" (including empty) selects IPv4; the
// silent default mirrors how operators expect "show me the routes" to
// behave, and is deliberately looser than RouteProtoTool's validation.
type RouteTableTool struct {
	dialer device.Dialer
	params device.Params
	logger *slog.Logger
}

func NewRouteTableTool(dialer device.Dialer, params device.Params, logger *slog.Logger) *RouteTableTool {
	return &RouteTableTool{dialer: dialer, params: params, logger: logger}
}

func (t *RouteTableTool) Name() string { return "GetRouteTable" }

func (t *RouteTableTool) Description() string {
	return "Fetch the device routing table. Input is 'ipv4' or 'ipv6'; defaults to ipv4 when omitted."
}

func (t *RouteTableTool) Parameters() map[string]any {
	return inputSchema("'ipv4' or 'ipv6' (default: ipv4)", false)
}

func (t *RouteTableTool) Run(ctx context.Context, argument string) string {
	command := "show ip route"
	if strings.EqualFold(strings.TrimSpace(argument), "ipv6") {
		command = "show ipv6 route"
	}
	out, err := runCommand(t.dialer, t.params, command)
	if err != nil {
		t.logger.Warn("route table lookup failed", "error", err)
		return domain.MarkerError + err.Error()
	}
	return out
}

// routeProtoCommands maps a protocol keyword to its state inspection command.
var routeProtoCommands = map[string]string{
	"bgp":  "show ip bgp summary",
	"ospf": "show ip ospf neighbor",
}

// RouteProtoTool inspects dynamic routing protocol state (BGP or OSPF).
// Unlike RouteTableTool, an unrecognized keyword is a validation error and
// no session is opened.
type RouteProtoTool struct {
	dialer device.Dialer
	params device.Params
	logger *slog.Logger
}

func NewRouteProtoTool(dialer device.Dialer, params device.Params, logger *slog.Logger) *RouteProtoTool {
	return &RouteProtoTool{dialer: dialer, params: params, logger: logger}
}

func (t *RouteProtoTool) Name() string { return "GetRouteProtoState" }

func (t *RouteProtoTool) Description() string {
	return "Check dynamic routing protocol state (BGP neighbor summary or OSPF neighbors). Input is 'bgp' or 'ospf'; defaults to bgp."
}

func (t *RouteProtoTool) Parameters() map[string]any {
	return inputSchema("'bgp' or 'ospf' (default: bgp)", false)
}

func (t *RouteProtoTool) Run(ctx context.Context, argument string) string {
	proto := strings.ToLower(strings.TrimSpace(argument))
	if proto == "" {
		proto = "bgp"
	}
	command, ok := routeProtoCommands[proto]
	if !ok {
		return domain.MarkerError + "proto must be 'bgp' or 'ospf'"
	}
	out, err := runCommand(t.dialer, t.params, command)
	if err != nil {
		t.logger.Warn("protocol state lookup failed", "proto", proto, "error", err)
		return domain.MarkerError + err.Error()
	}
	return out
}
