package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var configPath string

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "retinue",
	Short: "Resolve army roster records against a card catalog",
	Long: `Retinue turns compact roster records (unit names, titles and upgrade
names) into fully attributed rosters with point totals, using a catalog of
unit and upgrade cards.

It runs as an HTTP service (serve) or resolves a single record file (resolve).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// versionCmd prints build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and exit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "retinue %s (built %s)\n", Version, BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	var sErr *ServerError
	if errors.As(err, &sErr) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", sErr.Op, sErr.Err)
		return sErr.ExitCode
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return ExitConfigError
}
