package main

import (
	"fmt"
	"os"

	"github.com/mandalnilabja/gemrelay/internal/app"
	"github.com/mandalnilabja/gemrelay/internal/config"
	"github.com/mandalnilabja/gemrelay/internal/version"
)

func printStartupBanner(cfg *config.Config) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "gemrelay %s - Gemini API relay\n", version.Version)
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "Relay:      http://localhost%s%s\n", cfg.ServerPort, app.RelayPath)
	fmt.Fprintf(os.Stderr, "Health:     http://localhost%s/api/health\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Upstream:   %s/models/%s\n", cfg.BaseURL, cfg.Model)
	fmt.Fprintf(os.Stderr, "Key from:   $%s\n", cfg.APIKeyEnv)
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "\n")
}
