package storage

import (
	"fmt"
	"regexp"

	"github.com/pixil98/go-errors"
)

var identifierPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

type ValidatingSpec interface {
	Validate() error
}

// Asset is the on-disk envelope for one catalog definition.
type Asset[T ValidatingSpec] struct {
	Version uint   `json:"version"`
	ID      string `json:"id"`
	Spec    T      `json:"spec"`
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.ID == "" {
		el.Add(fmt.Errorf("id must be set"))
	} else if !identifierPattern.MatchString(a.ID) {
		el.Add(fmt.Errorf("id %q must be lowercase alphanumeric, dash or underscore", a.ID))
	}

	el.Add(a.Spec.Validate())

	return el.Err()
}
