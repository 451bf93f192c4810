package tool

import (
	"netbot/internal/device"
)

// runCommand opens one session, executes a single command, and returns the
// raw output. Session teardown is handled by WithSession on every path.
func runCommand(d device.Dialer, params device.Params, command string) (string, error) {
	var out string
	err := device.WithSession(d, params, func(s device.Session) error {
		raw, err := s.Run(command)
		if err != nil {
			return err
		}
		out = raw
		return nil
	})
	return out, err
}
