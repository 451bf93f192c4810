// Package device manages interactive CLI sessions to a single network
// device. A session is opened per tool invocation, never pooled, and is
// closed on every exit path.
package device

import (
	"fmt"
	"strings"
)

// Params identifies one device and the credentials used to reach it.
// It is resolved once at startup and treated as immutable afterwards.
type Params struct {
	DeviceType string `yaml:"device_type" json:"device_type"` // CLI dialect tag, e.g. "cisco_ios"
	Host       string `yaml:"host" json:"host"`
	Username   string `yaml:"username" json:"username"`
	Password   string `yaml:"password" json:"password"`
}

// Validate checks that every field is non-empty. Resolution happens at
// startup, so a validation failure here is fatal, not a per-call error.
func (p Params) Validate() error {
	var missing []string
	if p.DeviceType == "" {
		missing = append(missing, "device_type")
	}
	if p.Host == "" {
		missing = append(missing, "host")
	}
	if p.Username == "" {
		missing = append(missing, "username")
	}
	if p.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing device parameters: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Addr returns the SSH dial address, appending the default port when the
// host does not already carry one.
func (p Params) Addr() string {
	if strings.Contains(p.Host, ":") {
		return p.Host
	}
	return p.Host + ":22"
}
