package tool

import (
	"context"
	"log/slog"

	"netbot/internal/device"
	"netbot/internal/domain"
)

// VersionTool runs "show version" and returns only the software version.
type VersionTool struct {
	dialer device.Dialer
	params device.Params
	logger *slog.Logger
}

func NewVersionTool(dialer device.Dialer, params device.Params, logger *slog.Logger) *VersionTool {
	return &VersionTool{dialer: dialer, params: params, logger: logger}
}

func (t *VersionTool) Name() string { return "GetVersion" }

func (t *VersionTool) Description() string {
	return "Run 'show version' on the device and return only the software version number. Takes no input."
}

func (t *VersionTool) Parameters() map[string]any {
	return inputSchema("Unused; leave empty.", false)
}

func (t *VersionTool) Run(ctx context.Context, argument string) string {
	raw, err := runCommand(t.dialer, t.params, "show version")
	if err != nil {
		t.logger.Warn("version lookup failed", "error", err)
		return domain.MarkerError + err.Error()
	}
	return ExtractVersion(raw)
}
