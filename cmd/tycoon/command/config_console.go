package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-service"
	"github.com/pixil98/go-tycoon/internal/listener"
)

// ConsoleConfig exposes the command console over telnet and ssh. A zero
// port leaves that listener off.
type ConsoleConfig struct {
	TelnetPort uint16 `json:"telnet_port"`
	SshPort    uint16 `json:"ssh_port"`
	SshHostKey string `json:"ssh_host_key"`
	Banner     string `json:"banner"`

	// MaxSessions caps concurrent sessions per listener; zero is unlimited.
	MaxSessions int `json:"max_sessions"`
}

func (c *ConsoleConfig) validate() error {
	el := errors.NewErrorList()

	if c.TelnetPort != 0 && c.TelnetPort == c.SshPort {
		el.Add(fmt.Errorf("console telnet_port and ssh_port must differ"))
	}
	if c.MaxSessions < 0 {
		el.Add(fmt.Errorf("console.max_sessions must not be negative"))
	}
	if c.SshHostKey != "" {
		if _, err := os.Stat(c.SshHostKey); err != nil {
			el.Add(fmt.Errorf("console.ssh_host_key: %w", err))
		}
	}

	return el.Err()
}

func (c *ConsoleConfig) buildListeners(r listener.Responder, workers service.WorkerList) error {
	var opts []listener.ConnectionManagerOpt
	if c.Banner != "" {
		opts = append(opts, listener.WithBanner(c.Banner))
	}
	cm := listener.NewConnectionManager(r, opts...)
	lopts := []listener.ListenerOpt{listener.WithMaxSessions(c.MaxSessions)}

	if c.TelnetPort != 0 {
		workers["telnet"] = listener.NewTelnetListener(c.TelnetPort, cm, lopts...)
	}

	if c.SshPort != 0 {
		var pem []byte
		if c.SshHostKey != "" {
			var err error
			pem, err = os.ReadFile(c.SshHostKey)
			if err != nil {
				return fmt.Errorf("reading ssh host key: %w", err)
			}
		}
		key, err := listener.LoadHostKey(pem)
		if err != nil {
			return err
		}
		workers["ssh"] = listener.NewSshListener(c.SshPort, cm, key, lopts...)
	}

	return nil
}
