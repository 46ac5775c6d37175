package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EmbedVersion tracks the embedding format as a structured (major, minor) pair.
//
// A major bump means old vectors are not comparable to new ones (different
// model or dimensionality, index rebuild required). A minor bump covers
// score-only recalibrations such as prompt changes. Two embeddings are
// comparable iff their major versions match; the retrieval engine excludes
// cross-major pairs rather than miscomparing them.
type EmbedVersion struct {
	Major int
	Minor int
}

// CurrentEmbedVersion is the version written with every new embedding.
//
// Changelog:
//
//	2.0 — jina-embeddings-v3 at 1024 dims, venture context prompt prepended,
//	      recalibrated similarity thresholds.
//	1.0 — initial, openai text-embedding-3-large.
var CurrentEmbedVersion = EmbedVersion{Major: 2, Minor: 0}

// ParseEmbedVersion parses a "MAJOR.MINOR" string.
func ParseEmbedVersion(s string) (EmbedVersion, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return EmbedVersion{}, fmt.Errorf("embedding version %q: want MAJOR.MINOR", s)
	}
	maj, err := strconv.Atoi(major)
	if err != nil {
		return EmbedVersion{}, fmt.Errorf("embedding version %q: %w", s, err)
	}
	min, err := strconv.Atoi(minor)
	if err != nil {
		return EmbedVersion{}, fmt.Errorf("embedding version %q: %w", s, err)
	}
	if maj < 0 || min < 0 {
		return EmbedVersion{}, fmt.Errorf("embedding version %q: negative component", s)
	}
	return EmbedVersion{Major: maj, Minor: min}, nil
}

// String renders the version as "MAJOR.MINOR".
func (v EmbedVersion) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}

// ComparableWith reports whether vectors of both versions may be scored
// against each other.
func (v EmbedVersion) ComparableWith(other EmbedVersion) bool {
	return v.Major == other.Major
}
