package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/go-tycoon/internal/catalog"
	"github.com/pixil98/go-tycoon/internal/game"
	"github.com/pixil98/go-tycoon/internal/storage"
)

func TestConfig_Validate(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]struct {
		config  Config
		expErrs []string
	}{
		"minimal config": {
			config: Config{SaveDir: dir},
		},
		"full config": {
			config: Config{
				TickInterval: "500ms",
				SaveDir:      dir,
				SaveKey:      "slot_2",
				Economy:      EconomyConfig{GrowthRate: 1.2, MinOffline: "2m", AutosaveEvery: 30},
				Nats:         NatsConfig{Port: 4222, StartTimeout: "5s"},
				Ads: AdsConfig{
					RefreshInterval: "1m",
					PlaybackDelay:   "1s",
					CompletionRate:  0.8,
					FallbackMinECPM: 1,
					FallbackMaxECPM: 3,
					Revenue:         map[string]float64{"primary": 0.01},
				},
				Notify: NotifyConfig{Width: 60, Templates: map[string]string{"level_up": "Level {{ .Level }}!"}},
			},
		},
		"missing save dir": {
			config:  Config{},
			expErrs: []string{"save_dir is required"},
		},
		"bad save key": {
			config:  Config{SaveDir: dir, SaveKey: "../escape"},
			expErrs: []string{"save_key"},
		},
		"bad tick interval": {
			config:  Config{SaveDir: dir, TickInterval: "soon"},
			expErrs: []string{"parsing tick_interval"},
		},
		"tick interval too short": {
			config:  Config{SaveDir: dir, TickInterval: "10ms"},
			expErrs: []string{"at least 100ms"},
		},
		"partial catalog paths": {
			config:  Config{SaveDir: dir, Catalog: CatalogConfig{Items: AssetConfig[*catalog.Item]{Path: dir}}},
			expErrs: []string{"catalog.achievements: path is required", "catalog.rewards: path is required"},
		},
		"nats subjects collide": {
			config:  Config{SaveDir: dir, Nats: NatsConfig{Subjects: SubjectsConfig{Notify: "game", Commands: "game"}}},
			expErrs: []string{`share "game"`},
		},
		"bad nats port": {
			config:  Config{SaveDir: dir, Nats: NatsConfig{Port: 70000}},
			expErrs: []string{"nats.port"},
		},
		"bad ads settings": {
			config: Config{SaveDir: dir, Ads: AdsConfig{
				PlaybackDelay:   "forever",
				CompletionRate:  1.5,
				FallbackMinECPM: 5,
				FallbackMaxECPM: 1,
				Revenue:         map[string]float64{"tertiary": 1},
			}},
			expErrs: []string{"ads.playback_delay", "completion_rate", "ecpm range", `unknown provider "tertiary"`},
		},
		"unknown notice kind": {
			config:  Config{SaveDir: dir, Notify: NotifyConfig{Templates: map[string]string{"birthday": "hi"}}},
			expErrs: []string{`unknown notice kind "birthday"`},
		},
		"console ports collide": {
			config:  Config{SaveDir: dir, Console: ConsoleConfig{TelnetPort: 4000, SshPort: 4000}},
			expErrs: []string{"must differ"},
		},
		"bad economy": {
			config:  Config{SaveDir: dir, Economy: EconomyConfig{MinOffline: "later", AutosaveEvery: -1}},
			expErrs: []string{"economy.min_offline", "autosave_every"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.config.Validate()

			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected errors %v, got nil", tt.expErrs)
			}
			for _, exp := range tt.expErrs {
				if !strings.Contains(err.Error(), exp) {
					t.Errorf("error %q does not contain %q", err.Error(), exp)
				}
			}
		})
	}
}

func TestEconomyConfig_Build(t *testing.T) {
	c := EconomyConfig{GrowthRate: 1.1, OfflineEfficiency: 0.25, MinOffline: "5m", AutosaveEvery: 10}

	econ, err := c.build(2 * time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "growth rate", econ.GrowthRate, 1.1)
	testutil.AssertEqual(t, "offline efficiency", econ.OfflineEfficiency, 0.25)
	testutil.AssertEqual(t, "min offline", econ.MinOffline, 5*time.Minute)
	testutil.AssertEqual(t, "save every", econ.SaveEvery, 10)
	testutil.AssertEqual(t, "tick length", econ.TickLength, 2*time.Second)
}

func TestCatalogConfig_BuiltinFallback(t *testing.T) {
	c := CatalogConfig{}

	cat, err := c.BuildCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, ok := cat.Item("lemonade_stand")
	testutil.AssertEqual(t, "builtin item", ok, true)
}

func TestCatalogConfig_Seed(t *testing.T) {
	root := t.TempDir()
	c := CatalogConfig{Seed: true}
	for name, path := range map[string]*string{
		"items":        &c.Items.Path,
		"achievements": &c.Achievements.Path,
		"quests":       &c.Quests.Path,
		"rewards":      &c.Rewards.Path,
	} {
		*path = filepath.Join(root, name)
		if err := os.Mkdir(*path, 0755); err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
	}

	cat, err := c.BuildCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "items", len(cat.Items), len(catalog.DefaultItems()))

	// Seeded files load back without seeding again.
	c.Seed = false
	reloaded, err := c.BuildCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "reloaded rewards", len(reloaded.Rewards), len(catalog.DefaultRewards()))
	_, ok := reloaded.Reward("farm_boost")
	testutil.AssertEqual(t, "building reward", ok, true)
}

func TestConfig_SaveKey(t *testing.T) {
	ctx := context.Background()
	blobs, err := storage.NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := Config{SaveKey: "slot_2"}
	p := game.NewBlobPersister(blobs, c.persisterOpts()...)
	if err := p.Save(ctx, &game.Snapshot{Version: game.SnapshotVersion}); err != nil {
		t.Fatalf("saving: %v", err)
	}

	if _, err := blobs.Get(ctx, "slot_2"); err != nil {
		t.Errorf("expected save under configured key: %v", err)
	}
	_, err = blobs.Get(ctx, game.DefaultSaveKey)
	testutil.AssertEqual(t, "default key unused", errors.Is(err, storage.ErrNotFound), true)
}

func TestBuildWorkers(t *testing.T) {
	workers, err := BuildWorkers(&Config{
		SaveDir:      t.TempDir(),
		TickInterval: "250ms",
		Console:      ConsoleConfig{TelnetPort: 4000, SshPort: 4022},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"nats", "game", "bids", "commands", "telnet", "ssh"} {
		if _, ok := workers[name]; !ok {
			t.Errorf("missing worker %q", name)
		}
	}
}

func TestBuildWorkers_BadConfigType(t *testing.T) {
	_, err := BuildWorkers(struct{}{})
	testutil.AssertErrorContains(t, err, "unable to cast config")
}
