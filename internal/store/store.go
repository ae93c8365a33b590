// Package store persists channel calibration endpoints.
// The file implementation keeps one JSON document; the fake keeps a map.
package store

import "github.com/sweeney/drift-lights/internal/channel"

// Store reads and writes calibration endpoints by channel id.
type Store interface {
	// Load returns the endpoints for id. Missing or implausible data yields
	// channel.Defaults (field by field); an error is returned only when the
	// backing data cannot be read at all.
	Load(id channel.ID) (channel.Endpoints, error)

	// Save persists the endpoints for id as one record.
	Save(id channel.ID, ep channel.Endpoints) error

	// ClearAll erases every persisted record.
	ClearAll() error
}

// DefaultPath is where the daemon keeps its calibration by default.
const DefaultPath = "/var/lib/drift-lights/endpoints.json"
