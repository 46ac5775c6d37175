package domain

// KeyPrefix namespaces every persisted key.
const KeyPrefix = "vmatch:"

// EntityType identifies what a stored embedding describes.
type EntityType string

const (
	// EntityVenture is a user's free-text venture description.
	EntityVenture EntityType = "venture"
	// EntityProfile is a user's profile text.
	EntityProfile EntityType = "profile"
)

// ParseEntityType validates an entity type string.
func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(s) {
	case EntityVenture, EntityProfile:
		return EntityType(s), true
	}
	return "", false
}

// ProviderID identifies an embedding provider in the registry.
type ProviderID string

const (
	// ProviderJina is the Jina embeddings API.
	ProviderJina ProviderID = "jina"
	// ProviderOpenAI is the OpenAI embeddings API.
	ProviderOpenAI ProviderID = "open-ai"
)

// ParseProviderID validates a provider id string.
func ParseProviderID(s string) (ProviderID, bool) {
	switch ProviderID(s) {
	case ProviderJina, ProviderOpenAI:
		return ProviderID(s), true
	}
	return "", false
}
