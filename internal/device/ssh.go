package device

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	defaultDialTimeout = 15 * time.Second
	defaultReadTimeout = 30 * time.Second
	readChunkSize      = 4096
)

// promptPattern matches an IOS-style exec or config prompt at the end of
// output, e.g. "router>", "router#", "router(config)#", "router(config-if)#".
var promptPattern = regexp.MustCompile(`(?m)^[\w.\-]+(\([\w\-]+\))?[>#] ?$`)

// passwordPattern matches the password challenge printed by "enable".
var passwordPattern = regexp.MustCompile(`(?i)password\s*: ?$`)

// SSHDialer opens interactive SSH sessions to IOS-like devices.
type SSHDialer struct {
	dialTimeout time.Duration
	readTimeout time.Duration
	logger      *slog.Logger
}

type SSHDialerConfig struct {
	DialTimeout time.Duration
	ReadTimeout time.Duration
	Logger      *slog.Logger
}

func NewSSHDialer(cfg SSHDialerConfig) *SSHDialer {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &SSHDialer{
		dialTimeout: cfg.DialTimeout,
		readTimeout: cfg.ReadTimeout,
		logger:      cfg.Logger,
	}
}

// Dial connects, authenticates, requests a PTY shell, waits for the first
// prompt, and disables output paging. Any failure before that point is a
// *ConnectError.
func (d *SSHDialer) Dial(params Params) (Session, error) {
	if err := params.Validate(); err != nil {
		return nil, &ConnectError{Host: params.Host, Err: err}
	}

	sshCfg := &ssh.ClientConfig{
		User: params.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(params.Password),
			ssh.KeyboardInteractive(func(name, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = params.Password
				}
				return answers, nil
			}),
		},
		// Network gear rarely has stable host keys in practice; inventory
		// entries are operator-supplied and reached over the management
		// network, so host key pinning is left to the SSH transport config.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         d.dialTimeout,
		Config: ssh.Config{
			// Older IOS images only speak legacy key exchanges and ciphers.
			KeyExchanges: append([]string{}, supportedKexAlgos...),
			Ciphers:      append([]string{}, supportedCiphers...),
		},
	}

	client, err := ssh.Dial("tcp", params.Addr(), sshCfg)
	if err != nil {
		return nil, &ConnectError{Host: params.Host, Err: err}
	}

	sess, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, &ConnectError{Host: params.Host, Err: err}
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 115200,
		ssh.TTY_OP_OSPEED: 115200,
	}
	if err := sess.RequestPty("vt100", 80, 512, modes); err != nil {
		sess.Close()
		client.Close()
		return nil, &ConnectError{Host: params.Host, Err: fmt.Errorf("request pty: %w", err)}
	}

	stdin, err := sess.StdinPipe()
	if err != nil {
		sess.Close()
		client.Close()
		return nil, &ConnectError{Host: params.Host, Err: err}
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		sess.Close()
		client.Close()
		return nil, &ConnectError{Host: params.Host, Err: err}
	}

	if err := sess.Shell(); err != nil {
		sess.Close()
		client.Close()
		return nil, &ConnectError{Host: params.Host, Err: fmt.Errorf("start shell: %w", err)}
	}

	s := &sshSession{
		params:      params,
		client:      client,
		sess:        sess,
		stdin:       stdin,
		chunks:      make(chan readChunk, 32),
		readTimeout: d.readTimeout,
		logger:      d.logger,
	}
	go s.pump(stdout)

	// Consume the login banner up to the first prompt, then turn off
	// paging so multi-page output arrives in one read.
	if _, err := s.readUntil(promptPattern); err != nil {
		s.Close()
		return nil, &ConnectError{Host: params.Host, Err: fmt.Errorf("waiting for prompt: %w", err)}
	}
	if _, err := s.Run("terminal length 0"); err != nil {
		s.Close()
		return nil, &ConnectError{Host: params.Host, Err: err}
	}

	d.logger.Debug("device session opened", "host", params.Host, "device_type", params.DeviceType)
	return s, nil
}

type readChunk struct {
	data []byte
	err  error
}

// sshSession implements Session over an interactive SSH shell.
type sshSession struct {
	params      Params
	client      *ssh.Client
	sess        *ssh.Session
	stdin       io.WriteCloser
	chunks      chan readChunk
	readTimeout time.Duration
	logger      *slog.Logger

	privileged bool
	closeOnce  sync.Once
	closeErr   error
}

// pump moves device output from the blocking stdout pipe onto a channel so
// reads can be bounded by a timeout.
func (s *sshSession) pump(r io.Reader) {
	for {
		buf := make([]byte, readChunkSize)
		n, err := r.Read(buf)
		if n > 0 {
			s.chunks <- readChunk{data: buf[:n]}
		}
		if err != nil {
			s.chunks <- readChunk{err: err}
			return
		}
	}
}

// readUntil accumulates output until pattern matches the tail or the read
// timeout elapses.
func (s *sshSession) readUntil(pattern *regexp.Regexp) (string, error) {
	var buf bytes.Buffer
	deadline := time.NewTimer(s.readTimeout)
	defer deadline.Stop()

	for {
		select {
		case chunk := <-s.chunks:
			if len(chunk.data) > 0 {
				buf.Write(chunk.data)
				if pattern.MatchString(tail(buf.String())) {
					return buf.String(), nil
				}
			}
			if chunk.err != nil {
				if chunk.err == io.EOF {
					return buf.String(), fmt.Errorf("session closed by device")
				}
				return buf.String(), chunk.err
			}
		case <-deadline.C:
			return buf.String(), fmt.Errorf("timed out after %s waiting for prompt", s.readTimeout)
		}
	}
}

// tail returns the last few lines of accumulated output; matching the
// whole buffer would re-trigger on prompts embedded in earlier output.
func tail(out string) string {
	const keep = 256
	if len(out) <= keep {
		return out
	}
	return out[len(out)-keep:]
}

func (s *sshSession) send(line string) error {
	_, err := s.stdin.Write([]byte(line + "\n"))
	return err
}

func (s *sshSession) Run(command string) (string, error) {
	if err := s.send(command); err != nil {
		return "", &CommandError{Command: command, Err: err}
	}
	raw, err := s.readUntil(promptPattern)
	if err != nil {
		return "", &CommandError{Command: command, Err: err}
	}
	return cleanOutput(raw, command), nil
}

// Enable enters privileged exec mode, answering the password challenge with
// the login password when the device asks.
func (s *sshSession) Enable() error {
	if s.privileged {
		return nil
	}
	if err := s.send("enable"); err != nil {
		return &CommandError{Command: "enable", Err: err}
	}
	out, err := s.readUntil(regexp.MustCompile(promptPattern.String() + "|" + passwordPattern.String()))
	if err != nil {
		return &CommandError{Command: "enable", Err: err}
	}
	if passwordPattern.MatchString(tail(out)) {
		if err := s.send(s.params.Password); err != nil {
			return &CommandError{Command: "enable", Err: err}
		}
		if _, err := s.readUntil(promptPattern); err != nil {
			return &CommandError{Command: "enable", Err: err}
		}
	}
	s.privileged = true
	return nil
}

func (s *sshSession) ConfigMode() error {
	_, err := s.Run("configure terminal")
	return err
}

func (s *sshSession) ExitConfigMode() error {
	_, err := s.Run("end")
	return err
}

func (s *sshSession) Close() error {
	s.closeOnce.Do(func() {
		_ = s.send("exit")
		_ = s.sess.Close()
		s.closeErr = s.client.Close()
		s.logger.Debug("device session closed", "host", s.params.Host)
	})
	return s.closeErr
}

// cleanOutput strips the echoed command and the trailing prompt line from
// raw device output.
func cleanOutput(raw, command string) string {
	out := strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(out, "\n")

	start := 0
	if len(lines) > 0 && strings.Contains(lines[0], command) {
		start = 1
	}
	end := len(lines)
	for end > start && (strings.TrimSpace(lines[end-1]) == "" || promptPattern.MatchString(lines[end-1])) {
		end--
	}
	return strings.TrimRight(strings.Join(lines[start:end], "\n"), " \t")
}

// Algorithm lists broad enough to cover legacy IOS SSH servers. Modern
// defaults in x/crypto/ssh drop the older entries these devices require.
var (
	supportedKexAlgos = []string{
		"curve25519-sha256", "curve25519-sha256@libssh.org",
		"ecdh-sha2-nistp256", "ecdh-sha2-nistp384", "ecdh-sha2-nistp521",
		"diffie-hellman-group14-sha256", "diffie-hellman-group14-sha1",
		"diffie-hellman-group-exchange-sha256", "diffie-hellman-group-exchange-sha1",
		"diffie-hellman-group1-sha1",
	}
	supportedCiphers = []string{
		"aes128-gcm@openssh.com", "aes256-gcm@openssh.com",
		"chacha20-poly1305@openssh.com",
		"aes128-ctr", "aes192-ctr", "aes256-ctr",
		"aes128-cbc", "aes256-cbc", "3des-cbc",
	}
)
