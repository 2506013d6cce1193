package config

const (
	// MaxResourceNameLength is the maximum length for resource names.
	// Limited to 255 to provide reasonable UX (names should be short
	// and descriptive).
	MaxResourceNameLength = 255

	// MaxPathLength is the maximum length for full path strings. Paths
	// longer than this are rejected before any pattern matching runs, so
	// pathological input cannot cause unbounded memory use or
	// superlinear-matching hangs.
	MaxPathLength = 1000

	// MaxSegmentLength is the maximum length for a single path segment
	// derived during fallback identifier extraction.
	MaxSegmentLength = 128

	// MaxIDSuffixLength bounds the repetition count of the identifier
	// pattern: known prefix plus up to this many further characters.
	MaxIDSuffixLength = 120

	// BatchMoveConcurrency caps simultaneous in-flight move calls during a
	// batch fan-out. Throughput/backpressure control, not a correctness
	// requirement.
	BatchMoveConcurrency = 3

	// MaxVisibleBreadcrumbs is the default maximum ancestor count shown in a
	// breadcrumb trail before the middle run collapses into an ellipsis.
	MaxVisibleBreadcrumbs = 5
)
