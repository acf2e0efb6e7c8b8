package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tycoon/internal/game"
	"github.com/pixil98/go-tycoon/internal/notify"
)

type NotifyConfig struct {
	Width     int               `json:"width"`
	Templates map[string]string `json:"templates"`
}

func (c *NotifyConfig) validate() error {
	el := errors.NewErrorList()

	if c.Width < 0 {
		el.Add(fmt.Errorf("notify.width must not be negative"))
	}
	for kind := range c.Templates {
		if _, ok := notify.DefaultTemplates[game.NoticeKind(kind)]; !ok {
			el.Add(fmt.Errorf("notify.templates: unknown notice kind %q", kind))
		}
	}

	return el.Err()
}

func (c *NotifyConfig) buildNotifier(pub notify.Publisher, opts ...notify.NotifierOpt) (*notify.Notifier, error) {
	overrides := make(map[game.NoticeKind]string, len(c.Templates))
	for k, v := range c.Templates {
		overrides[game.NoticeKind(k)] = v
	}

	if c.Width > 0 {
		opts = append(opts, notify.WithWidth(c.Width))
	}
	return notify.NewNotifier(pub, overrides, opts...)
}
