package device

import "fmt"

// ConnectError reports a failure to open or authenticate a session.
// Tools catch it and translate it into an in-band error string.
type ConnectError struct {
	Host string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Host, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// CommandError reports a failure while executing a command on an already
// open session. The session is still closed by WithSession.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
