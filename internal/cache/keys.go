package cache

import (
	"fmt"
	"regexp"
	"strings"

	"dstu/internal/config"
	"dstu/internal/domain"
	"dstu/internal/dstupath"
	"dstu/internal/metrics"
)

// idPattern validates a derived path segment as a resource identifier: a
// known prefix plus a bounded run of identifier characters. The repetition
// count is fixed, never open-ended, so matching stays linear even on
// adversarial input.
var idPattern = regexp.MustCompile(fmt.Sprintf(
	`^(?:%s)_[A-Za-z0-9][A-Za-z0-9._-]{0,%d}$`,
	strings.Join(dstupath.KnownResourcePrefixes(), "|"),
	config.MaxIDSuffixLength-1,
))

// fillerChar replaces unrecognized characters when building a best-effort
// fallback key from a segment the pattern rejected.
const fillerChar = '_'

// ExtractIDFromPath derives an invalidation key from a path string, used when
// the identifier cannot be obtained from a success payload.
//
// Inputs are rejected outright (no invalidation attempted) when the path
// exceeds MaxPathLength or the derived segment exceeds MaxSegmentLength.
// A segment that fails pattern validation is returned as a best-effort key
// with unrecognized characters replaced by a filler; degraded is true in that
// case so the caller can log it.
func ExtractIDFromPath(path string) (id string, degraded bool, err error) {
	if len(path) > config.MaxPathLength {
		metrics.RecordKeyExtraction("rejected")
		return "", false, &domain.ValidationError{
			Message: fmt.Sprintf("path exceeds maximum length of %d", config.MaxPathLength),
		}
	}

	segment := lastSegment(path)
	if segment == "" {
		metrics.RecordKeyExtraction("rejected")
		return "", false, &domain.ValidationError{Message: "path has no usable segment"}
	}
	if len(segment) > config.MaxSegmentLength {
		metrics.RecordKeyExtraction("rejected")
		return "", false, &domain.ValidationError{
			Message: fmt.Sprintf("path segment exceeds maximum length of %d", config.MaxSegmentLength),
		}
	}

	if idPattern.MatchString(segment) {
		metrics.RecordKeyExtraction("exact")
		return segment, false, nil
	}

	metrics.RecordKeyExtraction("degraded")
	return sanitizeSegment(segment), true, nil
}

// lastSegment returns the final non-empty path segment.
func lastSegment(path string) string {
	parts := strings.Split(path, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(parts[i]); s != "" {
			return s
		}
	}
	return ""
}

// sanitizeSegment replaces characters outside the identifier alphabet with
// the filler character.
func sanitizeSegment(segment string) string {
	var b strings.Builder
	b.Grow(len(segment))
	for _, c := range segment {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '_', c == '-':
			b.WriteRune(c)
		default:
			b.WriteRune(fillerChar)
		}
	}
	return b.String()
}
