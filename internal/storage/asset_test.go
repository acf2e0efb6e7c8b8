package storage

import (
	"fmt"
	"strings"
	"testing"
)

type testSpec struct {
	valid bool
}

func (s *testSpec) Validate() error {
	if !s.valid {
		return fmt.Errorf("spec is invalid")
	}
	return nil
}

func TestAsset_Validate(t *testing.T) {
	tests := map[string]struct {
		asset   Asset[*testSpec]
		expErrs []string
	}{
		"valid asset": {
			asset: Asset[*testSpec]{Version: 1, ID: "lemonade-stand", Spec: &testSpec{valid: true}},
		},
		"underscore is valid": {
			asset: Asset[*testSpec]{Version: 1, ID: "click_frenzy", Spec: &testSpec{valid: true}},
		},
		"version not set": {
			asset:   Asset[*testSpec]{Version: 0, ID: "farm", Spec: &testSpec{valid: true}},
			expErrs: []string{"version must be set"},
		},
		"empty id": {
			asset:   Asset[*testSpec]{Version: 1, ID: "", Spec: &testSpec{valid: true}},
			expErrs: []string{"id must be set"},
		},
		"id with spaces": {
			asset:   Asset[*testSpec]{Version: 1, ID: "corner shop", Spec: &testSpec{valid: true}},
			expErrs: []string{"must be lowercase alphanumeric"},
		},
		"uppercase id": {
			asset:   Asset[*testSpec]{Version: 1, ID: "Farm", Spec: &testSpec{valid: true}},
			expErrs: []string{"must be lowercase alphanumeric"},
		},
		"invalid spec": {
			asset:   Asset[*testSpec]{Version: 1, ID: "farm", Spec: &testSpec{valid: false}},
			expErrs: []string{"spec is invalid"},
		},
		"multiple errors": {
			asset:   Asset[*testSpec]{Version: 0, ID: "", Spec: &testSpec{valid: false}},
			expErrs: []string{"version must be set", "id must be set", "spec is invalid"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.asset.Validate()

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
