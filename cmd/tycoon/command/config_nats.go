package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tycoon/internal/commands"
	"github.com/pixil98/go-tycoon/internal/messaging"
	"github.com/pixil98/go-tycoon/internal/notify"
	"github.com/pixil98/go-tycoon/internal/telemetry"
)

// NatsConfig configures the embedded bus and the subjects published on it.
// Empty subjects keep each component's default.
type NatsConfig struct {
	Host         string         `json:"host"`
	Port         int            `json:"port"`
	StartTimeout string         `json:"start_timeout"`
	Subjects     SubjectsConfig `json:"subjects"`
}

type SubjectsConfig struct {
	Telemetry string `json:"telemetry"`
	Notify    string `json:"notify"`
	Commands  string `json:"commands"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if n.StartTimeout != "" {
		if _, err := time.ParseDuration(n.StartTimeout); err != nil {
			el.Add(fmt.Errorf("parsing nats.start_timeout: %w", err))
		}
	}
	if n.Port < 0 || n.Port > 65535 {
		el.Add(fmt.Errorf("nats.port must be between 0 and 65535"))
	}

	seen := map[string]string{}
	for name, subj := range map[string]string{
		"telemetry": n.Subjects.Telemetry,
		"notify":    n.Subjects.Notify,
		"commands":  n.Subjects.Commands,
	} {
		if subj == "" {
			continue
		}
		if other, dup := seen[subj]; dup {
			el.Add(fmt.Errorf("nats.subjects: %s and %s share %q", other, name, subj))
		}
		seen[subj] = name
	}

	return el.Err()
}

func (c *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, messaging.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, messaging.WithPort(c.Port))
	}

	return messaging.NewNatsServer(opts...)
}

func (c *NatsConfig) sinkOpts() []telemetry.PublisherSinkOpt {
	if c.Subjects.Telemetry == "" {
		return nil
	}
	return []telemetry.PublisherSinkOpt{telemetry.WithSubjectPrefix(c.Subjects.Telemetry)}
}

func (c *NatsConfig) notifierOpts() []notify.NotifierOpt {
	if c.Subjects.Notify == "" {
		return nil
	}
	return []notify.NotifierOpt{notify.WithSubjectPrefix(c.Subjects.Notify)}
}

func (c *NatsConfig) gatewayOpts() []commands.GatewayOpt {
	if c.Subjects.Commands == "" {
		return nil
	}
	return []commands.GatewayOpt{commands.WithSubject(c.Subjects.Commands)}
}
