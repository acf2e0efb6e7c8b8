package game

import (
	"encoding/json"
	"fmt"
)

// Flags is free-form persisted state such as tutorial progress. Values are
// kept as raw JSON so unknown keys survive a save and load cycle.
type Flags map[string]json.RawMessage

// Set stores v under key after marshalling it to JSON.
func (f *Flags) Set(key string, v any) error {
	if *f == nil {
		*f = Flags{}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal flag %q: %w", key, err)
	}

	(*f)[key] = json.RawMessage(b)
	return nil
}

// Get unmarshals the flag at key into out.
// Returns (found=false, nil) if not present.
func (f Flags) Get(key string, out any) (bool, error) {
	if f == nil {
		return false, nil
	}

	raw, ok := f[key]
	if !ok || len(raw) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("unmarshal flag %q: %w", key, err)
	}
	return true, nil
}

func (f Flags) Delete(key string) {
	if f == nil {
		return
	}
	delete(f, key)
}

func (f Flags) clone() Flags {
	if f == nil {
		return nil
	}
	out := make(Flags, len(f))
	for k, v := range f {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
