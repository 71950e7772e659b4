// Command ccore is the CLI driver around the compiler core: it discovers
// C translation units, runs each through internal/lexer and
// internal/parser, and reports the diagnostics internal/sema attached
// along the way. It is ambient build-driver infrastructure, not part of
// the core itself (spec.md §1's Non-goals explicitly exclude a full
// driver), grounded on the teacher's demo/cmd/main.go cobra command tree
// (root command, subcommands added via AddCommand, Execute()).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oxhq/ccore/internal/diag"
	"github.com/oxhq/ccore/internal/tucache"
)

func main() {
	// Ignored error matches the teacher's own godotenv.Load() call at the
	// top of main: a missing .env is the common case, not a failure.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ccore",
		Short: "C translation-unit front end: lex, parse, and report diagnostics",
	}
	root.AddCommand(newCheckCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	var (
		jsonOutput bool
		cachePath  string
	)

	cmd := &cobra.Command{
		Use:   "check <path|glob>...",
		Short: "Parse and semantically check one or more translation units",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), args, jsonOutput, cachePath)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit results as JSON instead of plain text")
	cmd.Flags().StringVar(&cachePath, "cache", os.Getenv("CCORE_CACHE_DIR"), "build-cache database path (empty disables caching)")
	return cmd
}

func runCheck(ctx context.Context, args []string, jsonOutput bool, cachePath string) error {
	files, err := discoverFiles(args)
	if err != nil {
		return fmt.Errorf("discovering input files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no input files matched %v", args)
	}

	var cache *tucache.Cache
	if cachePath != "" {
		cache, err = tucache.Open(cachePath, false)
		if err != nil {
			return fmt.Errorf("opening build cache: %w", err)
		}
		defer cache.Close()
	}

	results := make([]fileResult, 0, len(files))
	for _, path := range files {
		res, err := checkFile(ctx, path, cache)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	if jsonOutput {
		return printJSON(results)
	}
	return printPlain(results)
}

func printPlain(results []fileResult) error {
	hadErrors := false
	for _, res := range results {
		if res.Skipped {
			fmt.Printf("%s: up to date (cached)\n", res.Path)
			continue
		}
		for i, msg := range res.Messages {
			fmt.Println(msg)
			if res.Diags[i].Level >= diag.Error {
				hadErrors = true
			}
		}
		if len(res.Messages) == 0 {
			fmt.Printf("%s: ok\n", res.Path)
		}
	}
	if hadErrors {
		return fmt.Errorf("one or more translation units failed semantic checking")
	}
	return nil
}

// jsonDiagnostic is the wire shape printed by --json: the raw Diagnostic
// struct doesn't serialize its rendered message, so this adds it alongside
// the structured fields a tool consuming this output would want.
type jsonDiagnostic struct {
	Level   string `json:"level"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

type jsonFileResult struct {
	Path    string           `json:"path"`
	Skipped bool             `json:"skipped"`
	Diags   []jsonDiagnostic `json:"diagnostics"`
}

func printJSON(results []fileResult) error {
	out := make([]jsonFileResult, len(results))
	hadErrors := false
	for i, res := range results {
		jr := jsonFileResult{Path: res.Path, Skipped: res.Skipped}
		for j, d := range res.Diags {
			jr.Diags = append(jr.Diags, jsonDiagnostic{
				Level:   d.Level.String(),
				ID:      string(d.ID),
				Message: res.Messages[j],
			})
			if d.Level >= diag.Error {
				hadErrors = true
			}
		}
		out[i] = jr
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if hadErrors {
		return fmt.Errorf("one or more translation units failed semantic checking")
	}
	return nil
}
