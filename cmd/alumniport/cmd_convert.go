package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alumniport/internal/batch"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <batch.yaml>",
	Short: "Convert a literal batch table into an import CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output CSV path (default <batch>.csv)")
	convertCmd.Flags().BoolVar(&stage, "stage", false, "Also write rows to the staging database")
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := args[0]
	b, err := batch.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return err
	}

	dest := convertOutput
	if dest == "" {
		dest = b.Name + ".csv"
	}
	return emit(cmd, b.Name, b.Entries, b.Apply(cfg.PipelineOptions()), dest)
}
