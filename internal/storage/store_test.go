package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	return nil
}

func writeAsset(t *testing.T, dir, file string, asset any) {
	t.Helper()
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "path", store.path, tmpDir)
	testutil.AssertEqual(t, "records length", len(store.records), 0)
}

func TestNewFileStore_NonExistentDirectory(t *testing.T) {
	_, err := NewFileStore[*mockStoreSpec]("/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func TestNewFileStore_Loading(t *testing.T) {
	tests := map[string]struct {
		files    map[string]any
		raw      map[string]string
		expCount int
		expErr   string
	}{
		"valid assets": {
			files: map[string]any{
				"farm.json": Asset[*mockStoreSpec]{Version: 1, ID: "farm", Spec: &mockStoreSpec{Name: "Farm", Value: 1}},
				"mine.json": Asset[*mockStoreSpec]{Version: 1, ID: "mine", Spec: &mockStoreSpec{Name: "Mine", Value: 2}},
			},
			expCount: 2,
		},
		"non json files ignored": {
			files: map[string]any{
				"farm.json": Asset[*mockStoreSpec]{Version: 1, ID: "farm", Spec: &mockStoreSpec{Name: "Farm"}},
			},
			raw:      map[string]string{"readme.txt": "ignore me", "data.yaml": "ignore: me"},
			expCount: 1,
		},
		"invalid json": {
			raw:    map[string]string{"bad.json": "{invalid json"},
			expErr: "unmarshalling asset",
		},
		"missing spec": {
			raw:    map[string]string{"empty.json": `{"version":1,"id":"empty"}`},
			expErr: "spec is missing",
		},
		"validation error": {
			files: map[string]any{
				"farm.json": Asset[*mockStoreSpec]{Version: 0, ID: "farm", Spec: &mockStoreSpec{}},
			},
			expErr: "version must be set",
		},
		"duplicate key": {
			files: map[string]any{
				"a.json": Asset[*mockStoreSpec]{Version: 1, ID: "farm", Spec: &mockStoreSpec{}},
				"b.json": Asset[*mockStoreSpec]{Version: 1, ID: "farm", Spec: &mockStoreSpec{}},
			},
			expErr: "duplicate key detected: farm",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			for file, a := range tt.files {
				writeAsset(t, dir, file, a)
			}
			for file, content := range tt.raw {
				if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			}

			store, err := NewFileStore[*mockStoreSpec](dir)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "record count", len(store.GetAll()), tt.expCount)
		})
	}
}

func TestFileStore_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore[*mockStoreSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Save("bank", &mockStoreSpec{Name: "Bank", Value: 47}); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	if err := store.Save("Bad Id", &mockStoreSpec{}); err == nil {
		t.Error("expected error for invalid id")
	}

	got, ok := store.Get("bank")
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "name", got.Name, "Bank")

	reloaded, err := NewFileStore[*mockStoreSpec](dir)
	if err != nil {
		t.Fatalf("unexpected reload error: %v", err)
	}
	got, ok = reloaded.Get("bank")
	testutil.AssertEqual(t, "reloaded found", ok, true)
	testutil.AssertEqual(t, "reloaded value", got.Value, 47)
	testutil.AssertEqual(t, "keys", len(reloaded.Keys()), 1)

	if _, err := os.Stat(filepath.Join(dir, "bank.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestFileStore_Get(t *testing.T) {
	store := &FileStore[*mockStoreSpec]{records: map[string]*mockStoreSpec{
		"existing": {Name: "Test", Value: 42},
	}}

	tests := map[string]struct {
		id      string
		expOk   bool
		expName string
	}{
		"existing record": {id: "existing", expOk: true, expName: "Test"},
		"missing record":  {id: "nonexistent"},
		"empty id":        {id: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := store.Get(tt.id)
			testutil.AssertEqual(t, "ok", ok, tt.expOk)
			if tt.expOk {
				testutil.AssertEqual(t, "name", got.Name, tt.expName)
			}
		})
	}
}

func TestFileStore_GetAllReturnsCopy(t *testing.T) {
	store := &FileStore[*mockStoreSpec]{records: map[string]*mockStoreSpec{
		"a": {Name: "A"},
	}}

	all := store.GetAll()
	delete(all, "a")

	testutil.AssertEqual(t, "records untouched", len(store.records), 1)
}
