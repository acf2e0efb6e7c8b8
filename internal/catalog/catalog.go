package catalog

import (
	"fmt"
	"sort"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-tycoon/internal/multiplier"
	"github.com/pixil98/go-tycoon/internal/storage"
)

// Catalog is the read-only set of definitions the engine plays against.
// Slices are in catalog order: ascending Order, then id.
type Catalog struct {
	Items        []*Item
	Achievements []*Achievement
	Quests       []*Quest
	Rewards      []*Reward

	items        map[string]*Item
	achievements map[string]*Achievement
	quests       map[string]*Quest
	rewards      map[string]*Reward
}

// New validates the definitions, checks cross references and indexes them.
func New(items []*Item, achievements []*Achievement, quests []*Quest, rewards []*Reward) (*Catalog, error) {
	c := &Catalog{
		Items:        sorted(items, func(i *Item) (int, string) { return i.Order, i.ID }),
		Achievements: sorted(achievements, func(a *Achievement) (int, string) { return a.Order, a.ID }),
		Quests:       sorted(quests, func(q *Quest) (int, string) { return q.Order, q.ID }),
		Rewards:      sorted(rewards, func(r *Reward) (int, string) { return r.Order, r.ID }),
	}

	el := errors.NewErrorList()
	var err error
	c.items, err = index("item", c.Items, func(i *Item) string { return i.ID })
	el.Add(err)
	c.achievements, err = index("achievement", c.Achievements, func(a *Achievement) string { return a.ID })
	el.Add(err)
	c.quests, err = index("quest", c.Quests, func(q *Quest) string { return q.ID })
	el.Add(err)
	c.rewards, err = index("reward", c.Rewards, func(r *Reward) string { return r.ID })
	el.Add(err)

	for _, i := range c.Items {
		el.Add(c.checkTarget("item "+i.ID, i.Effect))
	}
	for _, r := range c.Rewards {
		el.Add(c.checkTarget("reward "+r.ID, r.Effect))
	}

	if err := el.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromStores assembles a catalog from loaded asset stores, taking each
// definition's id from its asset key.
func FromStores(items storage.Storer[*Item], achievements storage.Storer[*Achievement], quests storage.Storer[*Quest], rewards storage.Storer[*Reward]) (*Catalog, error) {
	var is []*Item
	for id, i := range items.GetAll() {
		i.ID = id
		is = append(is, i)
	}
	var as []*Achievement
	for id, a := range achievements.GetAll() {
		a.ID = id
		as = append(as, a)
	}
	var qs []*Quest
	for id, q := range quests.GetAll() {
		q.ID = id
		qs = append(qs, q)
	}
	var rs []*Reward
	for id, r := range rewards.GetAll() {
		r.ID = id
		rs = append(rs, r)
	}
	return New(is, as, qs, rs)
}

func (c *Catalog) checkTarget(owner string, e *Effect) error {
	if e == nil || e.Kind != multiplier.KindBuilding {
		return nil
	}
	target, ok := c.items[e.TargetID]
	if !ok {
		return fmt.Errorf("%s: target %q is not an item", owner, e.TargetID)
	}
	if target.Kind != ItemBuilding {
		return fmt.Errorf("%s: target %q is not a building", owner, e.TargetID)
	}
	return nil
}

func (c *Catalog) Item(id string) (*Item, bool) {
	i, ok := c.items[id]
	return i, ok
}

func (c *Catalog) Achievement(id string) (*Achievement, bool) {
	a, ok := c.achievements[id]
	return a, ok
}

func (c *Catalog) Quest(id string) (*Quest, bool) {
	q, ok := c.quests[id]
	return q, ok
}

func (c *Catalog) Reward(id string) (*Reward, bool) {
	r, ok := c.rewards[id]
	return r, ok
}

func sorted[T any](in []T, key func(T) (int, string)) []T {
	out := make([]T, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		oi, ii := key(out[i])
		oj, ij := key(out[j])
		if oi != oj {
			return oi < oj
		}
		return ii < ij
	})
	return out
}

func index[T storage.ValidatingSpec](kind string, defs []T, id func(T) string) (map[string]T, error) {
	el := errors.NewErrorList()
	m := make(map[string]T, len(defs))
	for _, d := range defs {
		key := id(d)
		if key == "" {
			el.Add(fmt.Errorf("%s without id", kind))
			continue
		}
		if err := d.Validate(); err != nil {
			el.Add(fmt.Errorf("%s %s: %w", kind, key, err))
		}
		if _, dup := m[key]; dup {
			el.Add(fmt.Errorf("duplicate %s id %q", kind, key))
			continue
		}
		m[key] = d
	}
	return m, el.Err()
}
