// Package source provides functions that acquire the repository names of an
// organization, from a static list, its GitHub page or the GitHub REST API.
package source

import (
	"context"
	"errors"
	"slices"
)

// ErrNoRepositories is returned when the origin answered but listed no repositories.
var ErrNoRepositories = errors.New("no repositories found")

// ListFunc acquires the current repository names.
type ListFunc func(ctx context.Context) ([]string, error)

// Static returns a ListFunc that always returns a copy of names.
func Static(names []string) ListFunc {
	names = slices.Clone(names)
	return func(_ context.Context) ([]string, error) {
		if len(names) == 0 {
			return nil, ErrNoRepositories
		}
		return slices.Clone(names), nil
	}
}
