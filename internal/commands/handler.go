package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pixil98/go-tycoon/internal/catalog"
	"github.com/pixil98/go-tycoon/internal/display"
	"github.com/pixil98/go-tycoon/internal/game"
	"github.com/pixil98/go-tycoon/internal/multiplier"
	"github.com/pixil98/go-tycoon/internal/progression"
	"github.com/pixil98/go-tycoon/internal/reward"
)

// Game is the store surface the commands drive.
type Game interface {
	Catalog() *catalog.Catalog
	State() game.PlayerState
	Owned() []game.OwnedEntity
	Multipliers() []multiplier.Multiplier
	Achievements() []progression.AchievementProgress
	Quests() []progression.QuestProgress
	Price(itemID string) (float64, error)
	EffectiveClickValue() float64
	EffectiveIncome() float64
	RewardCooldown(rewardID string) (time.Duration, error)

	Click(ctx context.Context) float64
	Purchase(ctx context.Context, itemID string) error
	Save(ctx context.Context) error
	Reset(ctx context.Context) error
}

// Rewarder runs rewarded ad requests.
type Rewarder interface {
	RequestReward(ctx context.Context, rewardID string) (reward.Result, error)
}

// CommandFunc runs one command and returns the text shown to the player.
type CommandFunc func(ctx context.Context, args []string) (string, error)

type command struct {
	usage string
	help  string
	fn    CommandFunc
}

// Handler parses text commands and runs them against the game.
type Handler struct {
	game     Game
	rewarder Rewarder
	now      func() time.Time
	commands map[string]*command
}

func NewHandler(g Game, r Rewarder) *Handler {
	h := &Handler{
		game:     g,
		rewarder: r,
		now:      time.Now,
		commands: map[string]*command{},
	}

	// Register built-in commands
	h.register("click", "click", "earn currency", h.click)
	h.register("buy", "buy <item>", "purchase an item", h.buy)
	h.register("watch", "watch <reward>", "watch an ad for a reward", h.watch)
	h.register("status", "status", "show your progress", h.status)
	h.register("shop", "shop", "list items and prices", h.shop)
	h.register("rewards", "rewards", "list ad rewards", h.rewards)
	h.register("goals", "goals", "list achievements and quests", h.goals)
	h.register("save", "save", "save the game", h.save)
	h.register("reset", "reset confirm", "start over", h.reset)
	h.register("help", "help", "list commands", h.help)
	return h
}

func (h *Handler) register(name, usage, help string, fn CommandFunc) {
	h.commands[name] = &command{usage: usage, help: help, fn: fn}
}

// Execute runs one line of input. Bad input yields a *UserError.
func (h *Handler) Execute(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", NewUserError("Type 'help' for a list of commands.")
	}

	// Only the verb is case-folded; catalog ids keep their case.
	verb := strings.ToLower(fields[0])
	cmd, ok := h.commands[verb]
	if !ok {
		return "", NewUserError(fmt.Sprintf("Unknown command %q. Type 'help' for a list of commands.", verb))
	}
	return cmd.fn(ctx, fields[1:])
}

// itemID returns the catalog id matching arg, preferring an exact match
// over a case-insensitive one. Unmatched input comes back unchanged.
func (h *Handler) itemID(arg string) string {
	cat := h.game.Catalog()
	if _, ok := cat.Item(arg); ok {
		return arg
	}
	for _, i := range cat.Items {
		if strings.EqualFold(i.ID, arg) {
			return i.ID
		}
	}
	return arg
}

func (h *Handler) rewardID(arg string) string {
	cat := h.game.Catalog()
	if _, ok := cat.Reward(arg); ok {
		return arg
	}
	for _, r := range cat.Rewards {
		if strings.EqualFold(r.ID, arg) {
			return r.ID
		}
	}
	return arg
}

func (h *Handler) click(ctx context.Context, _ []string) (string, error) {
	earned := h.game.Click(ctx)
	return ExpandTemplate(`+{{ currency .Earned }} (balance {{ currency .Balance }})`, map[string]any{
		"Earned":  earned,
		"Balance": h.game.State().CurrentCurrency,
	})
}

func (h *Handler) buy(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", NewUserError("Usage: buy <item>")
	}

	id := h.itemID(args[0])
	item, ok := h.game.Catalog().Item(id)
	if !ok {
		return "", NewUserError(fmt.Sprintf("There is no item called %q. Type 'shop' to browse.", id))
	}
	price, err := h.game.Price(id)
	if err != nil {
		return "", err
	}

	err = h.game.Purchase(ctx, id)
	switch {
	case errors.Is(err, game.ErrInsufficientFunds):
		return "", NewUserError(fmt.Sprintf("You need %s to buy %s.", display.Currency(price), item.Name))
	case errors.Is(err, game.ErrAlreadyOwned):
		return "", NewUserError(fmt.Sprintf("You already own %s.", item.Name))
	case err != nil:
		return "", err
	}

	return fmt.Sprintf("Bought %s for %s.", item.Name, display.Currency(price)), nil
}

func (h *Handler) watch(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 {
		return "", NewUserError("Usage: watch <reward>")
	}

	id := h.rewardID(args[0])
	res, err := h.rewarder.RequestReward(ctx, id)
	switch {
	case errors.Is(err, reward.ErrUnknownReward):
		return "", NewUserError(fmt.Sprintf("There is no reward called %q. Type 'rewards' to browse.", id))
	case errors.Is(err, reward.ErrOnCooldown):
		remaining, _ := h.game.RewardCooldown(id)
		return "", NewUserError(fmt.Sprintf("That reward is available again in %s.", display.Duration(remaining)))
	case errors.Is(err, reward.ErrAlreadyPending):
		return "", NewUserError("An ad for that reward is already playing.")
	case errors.Is(err, reward.ErrAdPlaybackFailed):
		return "", NewUserError("The ad was not completed, so no reward was granted.")
	case err != nil:
		return "", err
	}

	return ExpandTemplate(watchTemplate, res)
}

const watchTemplate = `{{ if .Skipped }}Premium: ad skipped.{{ else }}Ad from {{ .Provider }} complete.{{ end }} ` +
	`{{ with .Grant.Multiplier }}{{ $.Grant.Name }} x{{ .Factor }} is active.{{ else }}{{ .Grant.Name }}: +{{ currency .Grant.Amount }}.{{ end }}`

func (h *Handler) save(ctx context.Context, _ []string) (string, error) {
	if err := h.game.Save(ctx); err != nil {
		return "", err
	}
	return "Game saved.", nil
}

func (h *Handler) reset(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 || !strings.EqualFold(args[0], "confirm") {
		return "", NewUserError("This erases all progress. Type 'reset confirm' to continue.")
	}
	if err := h.game.Reset(ctx); err != nil {
		return "", err
	}
	return "Progress reset.", nil
}

func (h *Handler) help(_ context.Context, _ []string) (string, error) {
	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Commands:")
	for _, name := range names {
		c := h.commands[name]
		fmt.Fprintf(&sb, "\n  %-16s %s", c.usage, c.help)
	}
	return sb.String(), nil
}
