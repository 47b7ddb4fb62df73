// Command alumniport converts alumni registry pages into the alumni-migration
// import CSV.
package main

import (
	"errors"
	"fmt"
	"os"

	goversion "github.com/caarlos0/go-version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alumniport/internal/config"
	"alumniport/internal/logging"
)

var (
	version   = ""
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

var (
	// Global flags
	debug   bool
	envFile string

	logger *zap.Logger
	cfg    config.Config
)

// ErrInputNotFound is returned when an input path does not exist.
var ErrInputNotFound = errors.New("input file not found")

var rootCmd = &cobra.Command{
	Use:   "alumniport",
	Short: "Turn alumni registry pages into import-ready CSV",
	Long: `alumniport reads scanned registry pages (Bengali or English) or literal
batch tables and writes the 23-column alumni-migration import file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
		var err error
		logger, err = logging.New(debug)
		if err != nil {
			return err
		}
		cfg, err = config.Load()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), buildVersion(version, commit, date, builtBy, treeState).String())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging and print OCR text")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading ALUMNI_* settings")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildVersion(version, commit, date, builtBy, treeState string) goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("alumniport", "Alumni registry to import CSV converter", ""),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
