package models

import (
	"errors"
	"fmt"
	"strings"
)

// Honorific is a title prefix read from the registry.
type Honorific string

const (
	HonorificNone Honorific = ""
	HonorificDr   Honorific = "Dr."
	HonorificProf Honorific = "Prof."
	HonorificMoh  Honorific = "Moh."
	HonorificShri Honorific = "Shri"
	HonorificSmt  Honorific = "Smt."
	HonorificMr   Honorific = "Mr."
	HonorificMs   Honorific = "Ms."
)

var knownHonorifics = map[Honorific]bool{
	HonorificNone: true,
	HonorificDr:   true,
	HonorificProf: true,
	HonorificMoh:  true,
	HonorificShri: true,
	HonorificSmt:  true,
	HonorificMr:   true,
	HonorificMs:   true,
}

// ParseHonorific maps loose spellings ("dr", "Prof", "DR.") onto the known set.
func ParseHonorific(s string) (Honorific, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return HonorificNone, nil
	}
	key := strings.ToLower(strings.TrimSuffix(s, "."))
	for h := range knownHonorifics {
		if h != HonorificNone && strings.ToLower(strings.TrimSuffix(string(h), ".")) == key {
			return h, nil
		}
	}
	return HonorificNone, fmt.Errorf("unknown honorific %q", s)
}

// AlumniSourceEntry is one registry line, either transcribed by hand or
// recovered from OCR text.
type AlumniSourceEntry struct {
	SerialID      string    `yaml:"serial_id" json:"serial_id"`
	Honorific     Honorific `yaml:"honorific,omitempty" json:"honorific,omitempty"`
	FullName      string    `yaml:"name" json:"name"`
	NativeName    string    `yaml:"native_name,omitempty" json:"native_name,omitempty"`
	YearOfLeaving string    `yaml:"year,omitempty" json:"year,omitempty"`
	IsDeceased    bool      `yaml:"deceased,omitempty" json:"deceased"`
	DeceasedYear  string    `yaml:"deceased_year,omitempty" json:"deceased_year,omitempty"`
	Source        string    `yaml:"source,omitempty" json:"source,omitempty"`
}

var (
	ErrMissingName = errors.New("name is required")
	ErrBadYear     = errors.New("year must be empty or four digits")
)

// Validate checks the fields that the pipeline relies on. Years must already
// be in ASCII digits.
func (e AlumniSourceEntry) Validate() error {
	var errs []error
	if strings.TrimSpace(e.FullName) == "" {
		errs = append(errs, ErrMissingName)
	}
	if !isYear(e.YearOfLeaving) {
		errs = append(errs, fmt.Errorf("year %q: %w", e.YearOfLeaving, ErrBadYear))
	}
	if !isYear(e.DeceasedYear) {
		errs = append(errs, fmt.Errorf("deceased_year %q: %w", e.DeceasedYear, ErrBadYear))
	}
	if !knownHonorifics[e.Honorific] {
		errs = append(errs, fmt.Errorf("unknown honorific %q", e.Honorific))
	}
	return errors.Join(errs...)
}

func isYear(s string) bool {
	if s == "" {
		return true
	}
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AlumniOutputRow holds one row of the alumni-migration import template.
type AlumniOutputRow struct {
	OldRegistrationNumber string `json:"old_registration_number"`
	RegistrationNumber    string `json:"registration_number"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	TitlePrefix           string `json:"title_prefix"`
	FirstName             string `json:"first_name"`
	MiddleName            string `json:"middle_name"`
	LastName              string `json:"last_name"`
	LastClass             string `json:"last_class"`
	YearOfLeaving         string `json:"year_of_leaving"`
	StartClass            string `json:"start_class"`
	StartYear             string `json:"start_year"`
	BatchYear             string `json:"batch_year"`
	Profession            string `json:"profession"`
	Company               string `json:"company"`
	Location              string `json:"location"`
	Bio                   string `json:"bio"`
	LinkedInURL           string `json:"linkedin_url"`
	WebsiteURL            string `json:"website_url"`
	Role                  string `json:"role"`
	IsDeceased            string `json:"is_deceased"`
	DeceasedYear          string `json:"deceased_year"`
	Notes                 string `json:"notes"`
}

// Record returns the row's cells in template column order.
func (r AlumniOutputRow) Record() []string {
	return []string{
		r.OldRegistrationNumber,
		r.RegistrationNumber,
		r.Email,
		r.Phone,
		r.TitlePrefix,
		r.FirstName,
		r.MiddleName,
		r.LastName,
		r.LastClass,
		r.YearOfLeaving,
		r.StartClass,
		r.StartYear,
		r.BatchYear,
		r.Profession,
		r.Company,
		r.Location,
		r.Bio,
		r.LinkedInURL,
		r.WebsiteURL,
		r.Role,
		r.IsDeceased,
		r.DeceasedYear,
		r.Notes,
	}
}

// RowFromRecord is the inverse of Record. rec must hold one cell per column.
func RowFromRecord(rec []string) (AlumniOutputRow, error) {
	if len(rec) != 23 {
		return AlumniOutputRow{}, fmt.Errorf("expected 23 cells, got %d", len(rec))
	}
	return AlumniOutputRow{
		OldRegistrationNumber: rec[0],
		RegistrationNumber:    rec[1],
		Email:                 rec[2],
		Phone:                 rec[3],
		TitlePrefix:           rec[4],
		FirstName:             rec[5],
		MiddleName:            rec[6],
		LastName:              rec[7],
		LastClass:             rec[8],
		YearOfLeaving:         rec[9],
		StartClass:            rec[10],
		StartYear:             rec[11],
		BatchYear:             rec[12],
		Profession:            rec[13],
		Company:               rec[14],
		Location:              rec[15],
		Bio:                   rec[16],
		LinkedInURL:           rec[17],
		WebsiteURL:            rec[18],
		Role:                  rec[19],
		IsDeceased:            rec[20],
		DeceasedYear:          rec[21],
		Notes:                 rec[22],
	}, nil
}
