package tool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"netbot/internal/device"
	"netbot/internal/domain"
)

const ifaceUsage = "input format: '<iface> shutdown|noshutdown'"

// IfaceConfigTool administratively shuts or brings up one interface. It
// inspects the running config first and skips the change when the
// interface is already in the desired state, so repeated invocations never
// toggle the interface. The check and the change are separate commands;
// another actor can flip the interface in between. No device-side locking
// exists to close that window.
type IfaceConfigTool struct {
	dialer device.Dialer
	params device.Params
	logger *slog.Logger
}

func NewIfaceConfigTool(dialer device.Dialer, params device.Params, logger *slog.Logger) *IfaceConfigTool {
	return &IfaceConfigTool{dialer: dialer, params: params, logger: logger}
}

func (t *IfaceConfigTool) Name() string { return "IfaceConfig" }

func (t *IfaceConfigTool) Description() string {
	return "Shut or no-shut an interface. Input format: 'GigabitEthernet0/1 shutdown' or 'GigabitEthernet0/1 noshutdown'."
}

func (t *IfaceConfigTool) Parameters() map[string]any {
	return inputSchema("'<interface> shutdown' or '<interface> noshutdown'", true)
}

// desiredState is the parsed form of the tool argument.
type desiredState struct {
	iface    string
	shutdown bool
}

// command returns the config-mode command that realizes the state.
func (d desiredState) command() string {
	if d.shutdown {
		return "shutdown"
	}
	return "no shutdown"
}

// parseIfaceArgument requires exactly two whitespace-separated tokens; the
// action matches by case-insensitive prefix "shut".
func parseIfaceArgument(argument string) (desiredState, error) {
	fields := strings.Fields(argument)
	if len(fields) != 2 {
		return desiredState{}, errors.New(ifaceUsage)
	}
	return desiredState{
		iface:    fields[0],
		shutdown: strings.HasPrefix(strings.ToLower(fields[1]), "shut"),
	}, nil
}

func (t *IfaceConfigTool) Run(ctx context.Context, argument string) string {
	desired, err := parseIfaceArgument(argument)
	if err != nil {
		return domain.MarkerError + err.Error()
	}

	var result string
	err = device.WithSession(t.dialer, t.params, func(s device.Session) error {
		current, err := s.Run("show run interface " + desired.iface)
		if err != nil {
			return err
		}

		// "shutdown" in the running config means administratively down.
		currentlyShutdown := strings.Contains(current, "shutdown")
		if currentlyShutdown == desired.shutdown {
			result = fmt.Sprintf("%s%s is already %s", domain.MarkerSkip, desired.iface, desired.command())
			return nil
		}

		if err := s.Enable(); err != nil {
			return err
		}
		if err := s.ConfigMode(); err != nil {
			return err
		}
		if _, err := s.Run("interface " + desired.iface); err != nil {
			return err
		}
		if _, err := s.Run(desired.command()); err != nil {
			return err
		}
		if err := s.ExitConfigMode(); err != nil {
			return err
		}

		t.logger.Info("interface state changed", "iface", desired.iface, "command", desired.command())
		result = fmt.Sprintf("%s%s %s applied", domain.MarkerOK, desired.iface, desired.command())
		return nil
	})
	if err != nil {
		t.logger.Warn("interface config failed", "iface", desired.iface, "error", err)
		return domain.MarkerError + err.Error()
	}
	return result
}
