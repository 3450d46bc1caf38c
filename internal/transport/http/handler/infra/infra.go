package infra

import (
	"time"

	"github.com/mandalnilabja/gemrelay/internal/relay"
)

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	Secret    relay.SecretSource
	StartTime time.Time
}

// New creates a new instance of infrastructure handlers.
func New(secret relay.SecretSource, startTime time.Time) *Handlers {
	return &Handlers{
		Secret:    secret,
		StartTime: startTime,
	}
}
