package pipeline

import (
	"errors"
	"strings"

	"alumniport/internal/models"
)

// RowDefaults fills the template columns that the registry never carries.
type RowDefaults struct {
	LastClass  string
	Profession string
	Location   string
	Bio        string
	Role       string
}

// Options groups everything that shapes a row besides the entry itself.
type Options struct {
	Registration RegistrationFormat
	Email        EmailFormat
	Defaults     RowDefaults
	// DuplicateThreshold is the Jaro-Winkler similarity at or above which two
	// names are reported as possible duplicates. Zero disables the check.
	DuplicateThreshold float64
}

// Assemble turns one entry into its output row. The result depends only on
// e and opts. fellBack reports a lossy registration number.
func Assemble(e models.AlumniSourceEntry, opts Options) (row models.AlumniOutputRow, fellBack bool) {
	name := SplitName(e.FullName)
	regID, err := opts.Registration.Normalize(e.SerialID)
	fellBack = errors.Is(err, ErrRegistrationParse)

	row = models.AlumniOutputRow{
		OldRegistrationNumber: strings.TrimSpace(e.SerialID),
		RegistrationNumber:    regID,
		Email:                 opts.Email.Address(name.First, name.Last, e.YearOfLeaving),
		TitlePrefix:           string(e.Honorific),
		FirstName:             name.First,
		MiddleName:            name.Middle,
		LastName:              name.Last,
		LastClass:             opts.Defaults.LastClass,
		YearOfLeaving:         e.YearOfLeaving,
		BatchYear:             e.YearOfLeaving,
		Profession:            opts.Defaults.Profession,
		Company:               Affiliation(e.Honorific, e.IsDeceased),
		Location:              opts.Defaults.Location,
		Bio:                   opts.Defaults.Bio,
		Role:                  opts.Defaults.Role,
		IsDeceased:            boolString(e.IsDeceased),
		DeceasedYear:          e.DeceasedYear,
		Notes:                 notes(e, fellBack),
	}
	return row, fellBack
}

func notes(e models.AlumniSourceEntry, fellBack bool) string {
	var parts []string
	if s := strings.TrimSpace(e.SerialID); s != "" {
		parts = append(parts, "Entry #"+s)
	}
	if e.NativeName != "" {
		parts = append(parts, "Original: "+e.NativeName)
	}
	if e.YearOfLeaving == "" {
		parts = append(parts, "Year of Leaving: Not specified")
	}
	if fellBack {
		parts = append(parts, "Registration number fallback")
	}
	if e.Source != "" {
		parts = append(parts, "Source: "+e.Source)
	}
	return strings.Join(parts, "; ")
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
