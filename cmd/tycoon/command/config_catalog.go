package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tycoon/internal/catalog"
	"github.com/pixil98/go-tycoon/internal/storage"
)

// CatalogConfig points at asset directories. When every path is empty the
// built-in catalog is used. With Seed set, an empty directory is filled
// with the built-in definitions so they can be edited in place.
type CatalogConfig struct {
	Items        AssetConfig[*catalog.Item]        `json:"items"`
	Achievements AssetConfig[*catalog.Achievement] `json:"achievements"`
	Quests       AssetConfig[*catalog.Quest]       `json:"quests"`
	Rewards      AssetConfig[*catalog.Reward]      `json:"rewards"`
	Seed         bool                              `json:"seed"`
}

func (c *CatalogConfig) builtin() bool {
	return c.Items.Path == "" && c.Achievements.Path == "" && c.Quests.Path == "" && c.Rewards.Path == ""
}

func (c *CatalogConfig) validate() error {
	if c.builtin() {
		return nil
	}

	el := errors.NewErrorList()
	el.Add(c.Items.Validate("catalog.items"))
	el.Add(c.Achievements.Validate("catalog.achievements"))
	el.Add(c.Quests.Validate("catalog.quests"))
	el.Add(c.Rewards.Validate("catalog.rewards"))
	return el.Err()
}

func (c *CatalogConfig) BuildCatalog() (*catalog.Catalog, error) {
	if c.builtin() {
		return catalog.Default(), nil
	}

	items, err := c.Items.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	achievements, err := c.Achievements.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating achievement store: %w", err)
	}
	quests, err := c.Quests.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating quest store: %w", err)
	}
	rewards, err := c.Rewards.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating reward store: %w", err)
	}

	if c.Seed {
		el := errors.NewErrorList()
		el.Add(seed(items, catalog.DefaultItems(), func(i *catalog.Item) string { return i.ID }))
		el.Add(seed(achievements, catalog.DefaultAchievements(), func(a *catalog.Achievement) string { return a.ID }))
		el.Add(seed(quests, catalog.DefaultQuests(), func(q *catalog.Quest) string { return q.ID }))
		el.Add(seed(rewards, catalog.DefaultRewards(), func(r *catalog.Reward) string { return r.ID }))
		if err := el.Err(); err != nil {
			return nil, fmt.Errorf("seeding catalog: %w", err)
		}
	}

	cat, err := catalog.FromStores(items, achievements, quests, rewards)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	return cat, nil
}

// seed writes defs into st when it holds no assets yet.
func seed[T storage.ValidatingSpec](st *storage.FileStore[T], defs []T, id func(T) string) error {
	if len(st.Keys()) > 0 {
		return nil
	}
	for _, d := range defs {
		if err := st.Save(id(d), d); err != nil {
			return err
		}
	}
	slog.Info("seeded catalog assets", "count", len(defs))
	return nil
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
