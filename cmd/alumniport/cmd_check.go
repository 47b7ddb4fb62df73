package main

import (
	"errors"
	"fmt"
	"net/mail"
	"os"

	"github.com/spf13/cobra"

	"alumniport/internal/csvout"
)

// ErrCheckFailed is returned when a generated file has problems.
var ErrCheckFailed = errors.New("check failed")

var checkCmd = &cobra.Command{
	Use:   "check <file.csv>",
	Short: "Validate a generated import CSV",
	Long: `Checks the header against the import template and every row's
registration number and email. Duplicate ids and emails are reported too.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	rows, err := csvout.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return err
	}

	reg := cfg.PipelineOptions().Registration
	out := cmd.OutOrStdout()
	problems := 0
	report := func(line int, format string, a ...any) {
		problems++
		fmt.Fprintf(out, "line %d: %s\n", line, fmt.Sprintf(format, a...))
	}

	seenReg := make(map[string]int, len(rows))
	seenEmail := make(map[string]int, len(rows))
	for i, row := range rows {
		line := i + 2
		if !reg.Valid(row.RegistrationNumber) {
			report(line, "registration number %q is not %s-%s-<%d digits>", row.RegistrationNumber, reg.Program, reg.YearTag, reg.Width)
		} else if prev, ok := seenReg[row.RegistrationNumber]; ok {
			report(line, "registration number %s duplicates line %d", row.RegistrationNumber, prev)
		} else {
			seenReg[row.RegistrationNumber] = line
		}

		if addr, err := mail.ParseAddress(row.Email); err != nil || addr.Address != row.Email {
			report(line, "email %q is not a bare address", row.Email)
		} else if prev, ok := seenEmail[row.Email]; ok {
			report(line, "email %s duplicates line %d", row.Email, prev)
		} else {
			seenEmail[row.Email] = line
		}
	}

	if problems > 0 {
		return fmt.Errorf("%w: %s: %d problems in %d rows", ErrCheckFailed, path, problems, len(rows))
	}
	fmt.Fprintf(out, "%s: %d rows OK\n", path, len(rows))
	return nil
}
