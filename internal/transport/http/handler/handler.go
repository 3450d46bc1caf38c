package handler

import (
	"time"

	"github.com/mandalnilabja/gemrelay/internal/relay"
	"github.com/mandalnilabja/gemrelay/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/gemrelay/internal/transport/http/handler/proxy"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Proxy *proxy.Handlers
	Infra *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(rl *relay.Relay, secret relay.SecretSource, maxBodyBytes int64) *Repo {
	startTime := time.Now()
	return &Repo{
		Proxy: proxy.New(rl, maxBodyBytes),
		Infra: infra.New(secret, startTime),
	}
}
