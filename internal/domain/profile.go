package domain

import "time"

// Location is the geographic placement used for region scoping. A candidate
// with no location is excluded under any scope stricter than worldwide.
type Location struct {
	CityID      string
	CountryCode string
	RegionCode  string
}

// HasCity reports whether a city is known.
func (l Location) HasCity() bool { return l.CityID != "" }

// HasCountry reports whether a country is known.
func (l Location) HasCountry() bool { return l.CountryCode != "" }

// HasRegion reports whether a broader administrative region is known.
func (l Location) HasRegion() bool { return l.RegionCode != "" }

// Profile carries the denormalized display fields attached to candidates.
// Profile editing itself lives outside this service; only the fields needed
// for discovery enrichment and region scoping are stored here.
type Profile struct {
	UserID            string
	DisplayName       string
	Headline          string
	VentureSummary    string
	PreferenceSummary string
	Location          Location
	UpdatedAt         time.Time
}

// Candidate is one ranked discovery result. Score is used for ordering only
// and is never exposed raw over the API.
type Candidate struct {
	Profile          Profile
	Score            float64
	EmbeddingUpdated time.Time
}
