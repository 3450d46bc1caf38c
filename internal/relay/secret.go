package relay

import (
	"os"
	"strings"
)

// SecretSource supplies the upstream API key. Secret is called once per
// invocation and returns "" when no key is configured.
type SecretSource interface {
	Secret() string
	// Name identifies the source in logs. It must not reveal the secret.
	Name() string
}

// EnvSecret reads the key from the named environment variable.
type EnvSecret string

func (e EnvSecret) Secret() string { return strings.TrimSpace(os.Getenv(string(e))) }
func (e EnvSecret) Name() string   { return string(e) }

// SecretFunc adapts a function to SecretSource.
type SecretFunc func() string

func (f SecretFunc) Secret() string { return f() }
func (f SecretFunc) Name() string   { return "func" }
