// Package constants holds domain-wide constant values shared across layers.
package constants

// Pub/Sub provider types selected through configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// QRPayloadPrefix is the optional scheme prefix of a checkpoint QR payload.
const QRPayloadPrefix = "checkpoint:"
