package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/artpar/retinue/internal/core/catalog"
	"github.com/artpar/retinue/internal/core/domain"
	"github.com/artpar/retinue/internal/core/roster"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	resolveStrict    bool
	resolveNormalize bool
)

// resolveCmd resolves one record file against the configured catalog.
var resolveCmd = &cobra.Command{
	Use:   "resolve <record-file>",
	Short: "Resolve a roster record file and print the resolved roster",
	Long: `Reads a YAML or JSON roster record ("-" reads stdin), resolves it
against the configured catalog and prints the resolved roster as JSON.

Names that match no card are dropped and reported as warnings on stderr.

Examples:
  retinue resolve vaders-fist.yaml
  retinue resolve --strict vaders-fist.yaml
  retinue resolve --normalize - < list.json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveStrict, "strict", false, "Fail if any name does not resolve")
	resolveCmd.Flags().BoolVar(&resolveNormalize, "normalize", false, "Print the canonical record (YAML) instead of the resolved roster")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return &ServerError{Op: "LoadConfig", Err: err, ExitCode: ExitConfigError}
	}
	logger := SetupLogger(cfg, cmd.ErrOrStderr())

	record, err := readRecord(args[0], cmd.InOrStdin())
	if err != nil {
		return &ServerError{Op: "ReadRecord", Err: err, ExitCode: ExitConfigError}
	}

	c, err := loadCatalog(cfg, logger)
	if err != nil {
		return err
	}

	opts := resolveOptions{strict: resolveStrict, normalize: resolveNormalize}
	return resolveRecord(cmd.OutOrStdout(), record, c, logger, opts)
}

type resolveOptions struct {
	strict    bool
	normalize bool
}

// resolveRecord resolves record and writes the result to w.
func resolveRecord(w io.Writer, record domain.RosterRecord, c *catalog.Catalog, logger *slog.Logger, opts resolveOptions) error {
	resolved, diags := roster.ResolveWithDiagnostics(record, c)
	for _, u := range diags.Unresolved {
		logger.Warn("unresolved "+string(u.Kind),
			"name", u.Name,
			"title", u.Title,
			"unit_index", u.UnitIndex,
		)
	}

	if opts.normalize {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resolved.ToRecord()); err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
	} else {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resolved); err != nil {
			return fmt.Errorf("encode roster: %w", err)
		}
	}

	if opts.strict && !diags.Empty() {
		return &ServerError{
			Op:       "Resolve",
			Err:      fmt.Errorf("%d names did not resolve: %s", len(diags.Unresolved), diags),
			ExitCode: ExitUnresolved,
		}
	}
	return nil
}

func readRecord(path string, stdin io.Reader) (domain.RosterRecord, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return domain.RosterRecord{}, fmt.Errorf("read record: %w", err)
	}
	return domain.ParseRosterRecord(data)
}
