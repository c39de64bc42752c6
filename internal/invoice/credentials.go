package invoice

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"invoice-extractor/internal/extraction"
)

// ErrNoCredential is returned when an extraction is triggered before a valid
// credential has been configured
var ErrNoCredential = errors.New("no valid API credential configured")

// KeyStore persists the single provider API key
type KeyStore interface {
	// LoadKey returns the persisted key, or "" when none is stored
	LoadKey() (string, error)

	// SaveKey stores the key, replacing any previous value
	SaveKey(key string) error

	// Close closes the store
	Close() error
}

// Credentials holds the active extractor and the persisted API key that
// produced it. Validation is a one-time construction check: a key is valid
// exactly when the factory can build an extractor from it.
type Credentials struct {
	mu        sync.Mutex
	store     KeyStore
	factory   extraction.Factory
	extractor extraction.Extractor
}

// NewCredentials creates a Credentials manager with no active extractor
func NewCredentials(store KeyStore, factory extraction.Factory) *Credentials {
	return &Credentials{
		store:   store,
		factory: factory,
	}
}

// LoadPersisted runs the persisted key, if any, through the normal validation
// path. It returns true when an extractor was activated.
func (c *Credentials) LoadPersisted() (bool, error) {
	key, err := c.store.LoadKey()
	if err != nil {
		return false, fmt.Errorf("loading persisted key: %w", err)
	}
	if key == "" {
		return false, nil
	}

	ext, err := c.factory(key)
	if err != nil {
		return false, fmt.Errorf("validating persisted key: %w", err)
	}

	c.install(ext)
	return true, nil
}

// Set validates a raw key by constructing an extractor from it. On success
// the key is persisted and the new extractor becomes active; on failure the
// prior persisted key and active extractor are left untouched.
func (c *Credentials) Set(raw string) error {
	ext, err := c.factory(raw)
	if err != nil {
		return fmt.Errorf("validating credential: %w", err)
	}

	if err := c.store.SaveKey(raw); err != nil {
		if closeErr := ext.Close(); closeErr != nil {
			slog.Warn("Failed to close extractor", "error", closeErr)
		}
		return fmt.Errorf("persisting credential: %w", err)
	}

	c.install(ext)
	return nil
}

// Adopt installs an already-constructed extractor without persisting a key.
// Used for providers that have no notion of an API key.
func (c *Credentials) Adopt(ext extraction.Extractor) {
	c.install(ext)
}

func (c *Credentials) install(ext extraction.Extractor) {
	c.mu.Lock()
	old := c.extractor
	c.extractor = ext
	c.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			slog.Warn("Failed to close previous extractor", "error", err)
		}
	}
}

// Active returns the current extractor, or ErrNoCredential when none is configured
func (c *Credentials) Active() (extraction.Extractor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.extractor == nil {
		return nil, ErrNoCredential
	}
	return c.extractor, nil
}

// Configured reports whether a valid credential is active
func (c *Credentials) Configured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extractor != nil
}

// Close closes the active extractor
func (c *Credentials) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.extractor == nil {
		return nil
	}
	err := c.extractor.Close()
	c.extractor = nil
	return err
}
