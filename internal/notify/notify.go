package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-tycoon/internal/display"
	"github.com/pixil98/go-tycoon/internal/game"
)

const DefaultSubjectPrefix = "tycoon.notify"

// DefaultTemplates renders each notice kind. Templates see the game.Notice
// as dot plus the currency, rate and duration helpers.
var DefaultTemplates = map[game.NoticeKind]string{
	game.NoticeLevelUp:         `Level up! You reached level {{ .Level }}.`,
	game.NoticeAchievement:     `Achievement unlocked: {{ .Name }}{{ if gt .Amount 0.0 }} (+{{ currency .Amount }}){{ end }}`,
	game.NoticeQuest:           `Quest complete: {{ .Name }}{{ if gt .Amount 0.0 }} (+{{ currency .Amount }}){{ end }}`,
	game.NoticeOfflineEarnings: `Welcome back! You earned {{ currency .Amount }} while away for {{ duration .Duration }}.`,
	game.NoticeRewardGranted:   `{{ .Name | title }}: {{ if .Duration }}x{{ .Amount }} for {{ duration .Duration }}{{ else }}+{{ currency .Amount }}{{ end }}`,
}

// Publisher delivers rendered notices.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Notifier renders game notices and publishes them on
// <prefix>.<notice kind>.
type Notifier struct {
	pub       Publisher
	prefix    string
	width     int
	templates map[game.NoticeKind]*template.Template
}

type NotifierOpt func(*Notifier)

func WithSubjectPrefix(prefix string) NotifierOpt {
	return func(n *Notifier) {
		n.prefix = prefix
	}
}

// WithWidth sets the wrap width; zero disables wrapping.
func WithWidth(width int) NotifierOpt {
	return func(n *Notifier) {
		n.width = width
	}
}

// NewNotifier parses templates, falling back to DefaultTemplates for kinds
// not overridden.
func NewNotifier(pub Publisher, overrides map[game.NoticeKind]string, opts ...NotifierOpt) (*Notifier, error) {
	n := &Notifier{
		pub:       pub,
		prefix:    DefaultSubjectPrefix,
		width:     display.DefaultWidth,
		templates: map[game.NoticeKind]*template.Template{},
	}

	for _, opt := range opts {
		opt(n)
	}

	sources := make(map[game.NoticeKind]string, len(DefaultTemplates))
	for k, v := range DefaultTemplates {
		sources[k] = v
	}
	for k, v := range overrides {
		sources[k] = v
	}

	for kind, src := range sources {
		tmpl, err := template.New(string(kind)).Funcs(Funcs()).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", kind, err)
		}
		n.templates[kind] = tmpl
	}

	return n, nil
}

// Funcs is the sprig function map plus display helpers.
func Funcs() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["currency"] = display.Currency
	funcs["rate"] = display.Rate
	funcs["duration"] = display.Duration
	return funcs
}

// Render expands the template for n.Kind.
func (n *Notifier) Render(notice game.Notice) (string, error) {
	tmpl, ok := n.templates[notice.Kind]
	if !ok {
		return "", fmt.Errorf("no template for notice kind %q", notice.Kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, notice); err != nil {
		return "", fmt.Errorf("executing %s template: %w", notice.Kind, err)
	}
	return display.WrapWidth(buf.String(), n.width), nil
}

// Notify implements game.Notifier. Failures are logged.
func (n *Notifier) Notify(ctx context.Context, notice game.Notice) {
	text, err := n.Render(notice)
	if err != nil {
		slog.WarnContext(ctx, "rendering notice", "kind", notice.Kind, "error", err)
		return
	}

	slog.InfoContext(ctx, "notice", "kind", notice.Kind, "text", text)
	if err := n.pub.Publish(n.prefix+"."+string(notice.Kind), []byte(text)); err != nil {
		slog.WarnContext(ctx, "publishing notice", "kind", notice.Kind, "error", err)
	}
}
