package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcusziade/compiledthoughts/internal/core/config"
	"github.com/marcusziade/compiledthoughts/internal/core/domain"
	"github.com/marcusziade/compiledthoughts/internal/presence/classify"
	"github.com/marcusziade/compiledthoughts/internal/presence/fetch"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Fetch and classify the presence endpoint a single time",
	Long:  `once performs one fetch against the configured endpoint, prints the outcome as JSON, and exits. Useful for checking the proxy without running the daemon.`,
	Run:   runOnce,
}

func init() {
	rootCmd.AddCommand(onceCmd)
}

func runOnce(cmd *cobra.Command, args []string) {
	setupLogging(nil)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	fetcher := fetch.New(cfg.Presence.Endpoint, cfg.Presence.FetchTimeout, classify.New(nil))
	defer func() {
		_ = fetcher.Close()
	}()

	outcome := fetcher.Fetch(context.Background())

	out := map[string]any{"outcome": outcome.Kind.String()}
	if outcome.Reason != "" {
		out["reason"] = outcome.Reason
	}
	if outcome.Presence != nil {
		out["presence"] = outcome.Presence
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if outcome.Kind != domain.OutcomeSuccess {
		os.Exit(1)
	}
}
