package tool

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"netbot/internal/device"
)

var errTest = errors.New("dial refused")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testParams() device.Params {
	return device.Params{DeviceType: "cisco_ios", Host: "10.0.0.1", Username: "admin", Password: "secret"}
}

// fakeSession scripts device output per command and records everything the
// tool sends, so tests can assert exact command sequences.
type fakeSession struct {
	outputs  map[string]string
	failOn   string // command that returns an error
	commands []string
	enables  int
	configs  int
	exits    int
	closed   int
}

func (f *fakeSession) Run(command string) (string, error) {
	f.commands = append(f.commands, command)
	if f.failOn != "" && command == f.failOn {
		return "", &device.CommandError{Command: command, Err: errors.New("transport reset")}
	}
	if out, ok := f.outputs[command]; ok {
		return out, nil
	}
	return "", nil
}

func (f *fakeSession) Enable() error         { f.enables++; return nil }
func (f *fakeSession) ConfigMode() error     { f.configs++; return nil }
func (f *fakeSession) ExitConfigMode() error { f.exits++; return nil }
func (f *fakeSession) Close() error          { f.closed++; return nil }

type fakeDialer struct {
	sess    *fakeSession
	dialErr error
	dials   int
}

func (f *fakeDialer) Dial(params device.Params) (device.Session, error) {
	f.dials++
	if f.dialErr != nil {
		return nil, &device.ConnectError{Host: params.Host, Err: f.dialErr}
	}
	return f.sess, nil
}

func newFakeDialer(outputs map[string]string) *fakeDialer {
	return &fakeDialer{sess: &fakeSession{outputs: outputs}}
}

func isError(result string) bool { return strings.HasPrefix(result, "[ERROR] ") }
func isSkip(result string) bool  { return strings.HasPrefix(result, "[SKIP] ") }
func isOK(result string) bool    { return strings.HasPrefix(result, "[OK] ") }
