package gemini

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const redacted = "REDACTED"

// buildTargetURL constructs {base}/models/{model}:generateContent?key={apiKey}.
func buildTargetURL(base, model, apiKey string) (string, error) {
	parsed, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: scheme and host required", base)
	}
	if model == "" {
		return "", errors.New("model is required")
	}

	parsed.Path += "/models/" + model + ":generateContent"
	q := parsed.Query()
	q.Set("key", apiKey)
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}

// redact strips the key query parameter from URLs carried by err.
// net/http reports transport failures as *url.Error including the full URL.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = redactURL(uerr.URL)
	}
	return err
}

func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return redacted
	}
	q := parsed.Query()
	if q.Has("key") {
		q.Set("key", redacted)
		parsed.RawQuery = q.Encode()
	}
	return parsed.String()
}
