package device

// Session is an opened, authenticated channel to one device. It is owned
// exclusively by the tool invocation that created it and must be closed
// exactly once. Enable, ConfigMode, and ExitConfigMode are only needed by
// configuration-mutating tools.
type Session interface {
	// Run sends one command and blocks until the device prompt returns,
	// yielding the raw output between echo and prompt.
	Run(command string) (string, error)
	// Enable enters privileged exec mode.
	Enable() error
	// ConfigMode enters global configuration mode.
	ConfigMode() error
	// ExitConfigMode leaves configuration mode.
	ExitConfigMode() error
	Close() error
}

// Dialer opens a session to the device described by Params.
type Dialer interface {
	Dial(params Params) (Session, error)
}

// WithSession opens a session, invokes body, and closes the session whether
// body returns normally or fails. Exactly one session exists per call; a
// dial failure surfaces as *ConnectError without invoking body.
func WithSession(d Dialer, params Params, body func(Session) error) error {
	sess, err := d.Dial(params)
	if err != nil {
		if _, ok := err.(*ConnectError); ok {
			return err
		}
		return &ConnectError{Host: params.Host, Err: err}
	}
	defer sess.Close()
	return body(sess)
}
