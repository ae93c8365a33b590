package store

import "github.com/sweeney/drift-lights/internal/channel"

// Fake is an in-memory Store for tests.
type Fake struct {
	// Records holds the raw persisted endpoints by channel.
	Records map[channel.ID]channel.Endpoints

	// Saves counts successful Save calls.
	Saves int

	// Clears counts successful ClearAll calls.
	Clears int

	// LoadError, SaveError and ClearError, if set, are returned by the
	// corresponding method.
	LoadError  error
	SaveError  error
	ClearError error
}

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{Records: map[channel.ID]channel.Endpoints{}}
}

// Load returns the sanitized record for id, or defaults if there is none.
func (f *Fake) Load(id channel.ID) (channel.Endpoints, error) {
	if f.LoadError != nil {
		return channel.Defaults, f.LoadError
	}
	ep, ok := f.Records[id]
	if !ok {
		return channel.Defaults, nil
	}
	return ep.Sanitize(), nil
}

// Save records ep for id.
func (f *Fake) Save(id channel.ID, ep channel.Endpoints) error {
	if f.SaveError != nil {
		return f.SaveError
	}
	f.Records[id] = ep
	f.Saves++
	return nil
}

// ClearAll drops every record.
func (f *Fake) ClearAll() error {
	if f.ClearError != nil {
		return f.ClearError
	}
	f.Records = map[channel.ID]channel.Endpoints{}
	f.Clears++
	return nil
}
