package dstu

import (
	"context"
)

// NamingService generates collision-free resource names.
type NamingService interface {
	// GenerateUniqueName returns base unchanged when it is absent from
	// existing, otherwise the base suffixed with the smallest free number
	// >= 2 (the bare base occupies slot 1; gaps are reused)
	GenerateUniqueName(base string, existing []string) string

	// GenerateUniqueNameSafe serializes concurrent generation requests for
	// the same scope:base key so two racing creates cannot both compute the
	// same name. fetchExisting is called while the key's lock is held.
	GenerateUniqueNameSafe(ctx context.Context, base string, fetchExisting FetchExistingFunc, scope string) (string, error)
}

// FetchExistingFunc queries the current set of sibling names.
type FetchExistingFunc func(ctx context.Context) ([]string, error)
