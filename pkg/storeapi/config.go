package storeapi

import "time"

// Config represents the configuration for the bookstore API client
type Config struct {
	// BaseURL is the API root, e.g. https://books.example.com/api
	BaseURL string

	// Timeout bounds a single request. Zero disables the client-side timeout.
	Timeout time.Duration

	// DefaultLanguage is sent in the lang header when a call does not set one
	DefaultLanguage string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if c.Timeout < 0 {
		return ErrInvalidConfig
	}
	return nil
}
