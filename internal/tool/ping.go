package tool

import (
	"context"
	"log/slog"
	"strings"

	"netbot/internal/device"
	"netbot/internal/domain"
)

// PingTool pings a target address from the device itself, so reachability
// is measured from the router's perspective, not the operator's machine.
type PingTool struct {
	dialer device.Dialer
	params device.Params
	logger *slog.Logger
}

func NewPingTool(dialer device.Dialer, params device.Params, logger *slog.Logger) *PingTool {
	return &PingTool{dialer: dialer, params: params, logger: logger}
}

func (t *PingTool) Name() string { return "Ping" }

func (t *PingTool) Description() string {
	return "Ping a target IP address from the router (5 packets). Input is the target address."
}

func (t *PingTool) Parameters() map[string]any {
	return inputSchema("Target IP address to ping", true)
}

func (t *PingTool) Run(ctx context.Context, argument string) string {
	target := strings.TrimSpace(argument)
	if target == "" {
		return domain.MarkerError + "target address is required"
	}
	out, err := runCommand(t.dialer, t.params, "ping "+target)
	if err != nil {
		t.logger.Warn("ping failed", "target", target, "error", err)
		return domain.MarkerError + err.Error()
	}
	return out
}
