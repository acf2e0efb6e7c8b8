package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/pixil98/go-tycoon/internal/display"
)

const statusTemplate = `Level {{ .State.Level }} ({{ .State.XP }}/{{ .State.XPRequired }} XP)
Balance: {{ currency .State.CurrentCurrency }} (lifetime {{ currency .State.TotalCurrency }})
Per click: {{ currency .Click }}   Income: {{ rate .Income }}
Clicks: {{ .State.TotalClicks }}   Ads watched: {{ .State.AdsWatched }}{{ if .State.Entitled }}   Premium{{ end }}
{{- if .Owned }}
Owned:{{ range .Owned }}
  {{ .Name }} x{{ .Count }}{{ end }}
{{- end }}
{{- if .Boosts }}
Boosts:{{ range .Boosts }}
  {{ .Kind }}{{ with .Target }} ({{ . }}){{ end }} x{{ .Factor }} for {{ duration .Remaining }}{{ end }}
{{- end }}`

type ownedView struct {
	Name  string
	Count int64
}

type boostView struct {
	Kind      string
	Target    string
	Factor    float64
	Remaining time.Duration
}

func (h *Handler) status(_ context.Context, _ []string) (string, error) {
	now := h.now()
	cat := h.game.Catalog()

	var owned []ownedView
	for _, o := range h.game.Owned() {
		name := o.ID
		if item, ok := cat.Item(o.ID); ok {
			name = item.Name
		}
		owned = append(owned, ownedView{Name: name, Count: o.Count})
	}

	var boosts []boostView
	for _, m := range h.game.Multipliers() {
		boosts = append(boosts, boostView{
			Kind:      string(m.Kind),
			Target:    m.TargetID,
			Factor:    m.Factor,
			Remaining: m.ExpiresAt.Sub(now),
		})
	}

	return ExpandTemplate(statusTemplate, map[string]any{
		"State":  h.game.State(),
		"Click":  h.game.EffectiveClickValue(),
		"Income": h.game.EffectiveIncome(),
		"Owned":  owned,
		"Boosts": boosts,
	})
}

const shopTemplate = `Shop:{{ range . }}
  {{ printf "%-14s" .ID }} {{ printf "%-16s" .Name }} {{ .Price }}{{ if .Income }}  +{{ .Income }}{{ end }}{{ if .Note }}  [{{ .Note }}]{{ end }}{{ end }}`

type shopRow struct {
	ID     string
	Name   string
	Price  string
	Income string
	Note   string
}

func (h *Handler) shop(_ context.Context, _ []string) (string, error) {
	owned := map[string]int64{}
	for _, o := range h.game.Owned() {
		owned[o.ID] = o.Count
	}

	var rows []shopRow
	for _, item := range h.game.Catalog().Items {
		price, err := h.game.Price(item.ID)
		if err != nil {
			return "", err
		}
		row := shopRow{ID: item.ID, Name: item.Name, Price: display.Currency(price)}
		if item.Income > 0 {
			row.Income = display.Rate(item.Income)
		}
		switch {
		case item.OneTime() && owned[item.ID] > 0:
			row.Note = "owned"
		case owned[item.ID] > 0:
			row.Note = fmt.Sprintf("have %d", owned[item.ID])
		}
		rows = append(rows, row)
	}
	return ExpandTemplate(shopTemplate, rows)
}

const rewardsTemplate = `Rewards:{{ range . }}
  {{ printf "%-14s" .ID }} {{ printf "%-18s" .Name }} {{ if .Remaining }}ready in {{ duration .Remaining }}{{ else }}ready{{ end }}{{ end }}`

type rewardRow struct {
	ID        string
	Name      string
	Remaining time.Duration
}

func (h *Handler) rewards(_ context.Context, _ []string) (string, error) {
	var rows []rewardRow
	for _, r := range h.game.Catalog().Rewards {
		remaining, err := h.game.RewardCooldown(r.ID)
		if err != nil {
			return "", err
		}
		rows = append(rows, rewardRow{ID: r.ID, Name: r.Name, Remaining: remaining})
	}
	return ExpandTemplate(rewardsTemplate, rows)
}

const goalsTemplate = `Achievements:{{ range .Achievements }}
  [{{ if .Done }}x{{ else }} {{ end }}] {{ .Name }}{{ end }}
Quests:{{ range .Quests }}
  [{{ if .Done }}x{{ else }} {{ end }}] {{ .Name }} ({{ .Progress }}/{{ .Target }}){{ end }}`

type goalRow struct {
	Name     string
	Done     bool
	Progress float64
	Target   float64
}

func (h *Handler) goals(_ context.Context, _ []string) (string, error) {
	cat := h.game.Catalog()

	var achs []goalRow
	for _, a := range h.game.Achievements() {
		def, ok := cat.Achievement(a.ID)
		if !ok {
			continue
		}
		achs = append(achs, goalRow{Name: def.Name, Done: a.Unlocked()})
	}

	var quests []goalRow
	for _, q := range h.game.Quests() {
		def, ok := cat.Quest(q.ID)
		if !ok {
			continue
		}
		quests = append(quests, goalRow{Name: def.Name, Done: q.Completed, Progress: q.Progress, Target: def.Target})
	}

	return ExpandTemplate(goalsTemplate, map[string]any{
		"Achievements": achs,
		"Quests":       quests,
	})
}
