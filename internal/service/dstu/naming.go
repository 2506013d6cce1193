package dstu

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	dstusvc "dstu/internal/domain/services/dstu"
)

type namingService struct {
	locks  *keyedMutex
	logger *slog.Logger
}

// NewNamingService creates a new naming service.
func NewNamingService(logger *slog.Logger) dstusvc.NamingService {
	return &namingService{
		locks:  newKeyedMutex(),
		logger: logger,
	}
}

// ParseNameWithNumber splits a trailing "<space><digits>" suffix off a name.
//
// Examples:
//   - "Document 2" → ("Document", 2, true)
//   - "Document" → ("Document", 0, false)
//   - "Document 2a" → ("Document 2a", 0, false)
func ParseNameWithNumber(name string) (base string, number int, hasNumber bool) {
	idx := strings.LastIndex(name, " ")
	if idx <= 0 || idx == len(name)-1 {
		return name, 0, false
	}
	n, err := strconv.Atoi(name[idx+1:])
	if err != nil || n < 0 {
		return name, 0, false
	}
	return name[:idx], n, true
}

// GenerateUniqueName reproduces filesystem-style naming: the first occurrence
// keeps the bare name, later ones get the smallest free number >= 2. The bare
// base occupies slot 1 and gaps are reused, so existing {X, X 3} yields "X 2".
func GenerateUniqueName(base string, existing []string) string {
	taken := false
	used := make(map[int]bool)
	for _, name := range existing {
		if name == base {
			taken = true
			used[1] = true
			continue
		}
		b, n, ok := ParseNameWithNumber(name)
		if ok && b == base && n >= 2 {
			used[n] = true
		}
	}
	if !taken {
		return base
	}

	n := 2
	for used[n] {
		n++
	}
	return fmt.Sprintf("%s %d", base, n)
}

func (s *namingService) GenerateUniqueName(base string, existing []string) string {
	return GenerateUniqueName(base, existing)
}

// GenerateUniqueNameSafe serializes name generation per scope:base key so two
// concurrent creates with the same default title cannot both compute the same
// name. fetchExisting runs while the key's lock is held; by the time the next
// waiter fetches, it observes the extended name set.
func (s *namingService) GenerateUniqueNameSafe(ctx context.Context, base string, fetchExisting dstusvc.FetchExistingFunc, scope string) (string, error) {
	key := base
	if scope != "" {
		key = scope + ":" + base
	}

	release, err := s.locks.lock(ctx, key)
	if err != nil {
		return "", fmt.Errorf("acquire naming lock for %q: %w", key, err)
	}
	defer release()

	existing, err := fetchExisting(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch existing names for %q: %w", key, err)
	}

	name := GenerateUniqueName(base, existing)
	if name != base {
		s.logger.Debug("resolved name collision", "base", base, "name", name, "scope", scope)
	}
	return name, nil
}
