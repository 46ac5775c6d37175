package domain

// RegionScope is the geographic granularity limiting candidate search.
type RegionScope string

const (
	// ScopeCity keeps candidates sharing the requester's city.
	ScopeCity RegionScope = "city"
	// ScopeCountry keeps candidates sharing the requester's country.
	ScopeCountry RegionScope = "country"
	// ScopeRegion keeps candidates in the same broader administrative region.
	ScopeRegion RegionScope = "region"
	// ScopeWorldwide applies no geographic filter.
	ScopeWorldwide RegionScope = "worldwide"
)

// ParseRegionScope validates a region scope string.
func ParseRegionScope(s string) (RegionScope, bool) {
	switch RegionScope(s) {
	case ScopeCity, ScopeCountry, ScopeRegion, ScopeWorldwide:
		return RegionScope(s), true
	}
	return "", false
}

// Settings is the per-user matching strictness configuration.
type Settings struct {
	UserID    string
	Threshold int
	Scope     RegionScope
}

const (
	// MinThreshold is the loosest similarity threshold level.
	MinThreshold = 1
	// MaxThreshold is the strictest similarity threshold level.
	MaxThreshold = 4

	// DefaultThreshold applies when a user has never saved settings.
	DefaultThreshold = 2
	// DefaultScope applies when a user has never saved settings.
	DefaultScope = ScopeRegion
)

// thresholdCutoffs maps the ordinal threshold level to a minimum cosine
// similarity. The values are a heuristic calibrated for embedding version 2.x
// (jina-embeddings-v3); recalibrations bump the minor embedding version.
var thresholdCutoffs = map[int]float64{
	1: 0.30,
	2: 0.45,
	3: 0.60,
	4: 0.75,
}

// ThresholdCutoff returns the minimum similarity for a threshold level.
// Out-of-range levels fall back to the default level's cutoff.
func ThresholdCutoff(level int) float64 {
	if c, ok := thresholdCutoffs[level]; ok {
		return c
	}
	return thresholdCutoffs[DefaultThreshold]
}

// ValidThreshold reports whether level is within the accepted range.
func ValidThreshold(level int) bool {
	return level >= MinThreshold && level <= MaxThreshold
}

// DefaultSettings returns the defaults used when no settings row exists.
func DefaultSettings(userID string) Settings {
	return Settings{UserID: userID, Threshold: DefaultThreshold, Scope: DefaultScope}
}
