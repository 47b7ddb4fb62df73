package pipeline

import (
	"fmt"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"alumniport/internal/models"
)

// DiagnosticKind classifies a batch-level finding.
type DiagnosticKind string

const (
	DiagRegistrationFallback  DiagnosticKind = "registration_fallback"
	DiagRegistrationOverflow  DiagnosticKind = "registration_overflow"
	DiagRegistrationCollision DiagnosticKind = "registration_collision"
	DiagEmailCollision        DiagnosticKind = "email_collision"
	DiagPossibleDuplicate     DiagnosticKind = "possible_duplicate"
)

// Diagnostic is a finding about one row, or a pair of rows, that needs a
// human look before the file is uploaded.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	SerialID string         `json:"serial_id"`
	Other    string         `json:"other,omitempty"`
	Message  string         `json:"message"`
}

// Result is the fully materialised output of one batch.
type Result struct {
	Rows        []models.AlumniOutputRow `json:"rows"`
	Diagnostics []Diagnostic             `json:"diagnostics"`
}

// Count returns how many diagnostics of kind k were raised.
func (r Result) Count(k DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == k {
			n++
		}
	}
	return n
}

// Run assembles every entry in order and collects collisions between
// generated identifiers. Rows are never altered to resolve a collision.
func Run(entries []models.AlumniSourceEntry, opts Options) Result {
	res := Result{Rows: make([]models.AlumniOutputRow, 0, len(entries))}
	regSeen := make(map[string]string, len(entries))
	emailSeen := make(map[string]string, len(entries))

	for _, e := range entries {
		row, fellBack := Assemble(e, opts)
		serial := row.OldRegistrationNumber
		if fellBack {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:     DiagRegistrationFallback,
				SerialID: serial,
				Message:  fmt.Sprintf("serial %q has no leading number; registration id %s is zero-padded text", serial, row.RegistrationNumber),
			})
		}
		if !fellBack && opts.Registration.Width > 0 && !opts.Registration.Valid(row.RegistrationNumber) {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:     DiagRegistrationOverflow,
				SerialID: serial,
				Message:  fmt.Sprintf("serial %q needs more than %d digits; registration id %s will fail validation", serial, opts.Registration.Width, row.RegistrationNumber),
			})
		}
		if prev, ok := regSeen[row.RegistrationNumber]; ok {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:     DiagRegistrationCollision,
				SerialID: serial,
				Other:    prev,
				Message:  fmt.Sprintf("registration id %s already used by entry #%s", row.RegistrationNumber, prev),
			})
		} else {
			regSeen[row.RegistrationNumber] = serial
		}
		if prev, ok := emailSeen[row.Email]; ok {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Kind:     DiagEmailCollision,
				SerialID: serial,
				Other:    prev,
				Message:  fmt.Sprintf("email %s already used by entry #%s", row.Email, prev),
			})
		} else {
			emailSeen[row.Email] = serial
		}
		res.Rows = append(res.Rows, row)
	}

	if opts.DuplicateThreshold > 0 {
		res.Diagnostics = append(res.Diagnostics, nearDuplicates(entries, opts.DuplicateThreshold)...)
	}
	return res
}

func nearDuplicates(entries []models.AlumniSourceEntry, threshold float64) []Diagnostic {
	metric := metrics.NewJaroWinkler()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = strings.ToLower(strings.Join(strings.Fields(e.FullName), " "))
	}

	var out []Diagnostic
	for i := 0; i < len(entries); i++ {
		if names[i] == "" {
			continue
		}
		for j := i + 1; j < len(entries); j++ {
			if names[j] == "" {
				continue
			}
			score := strutil.Similarity(names[i], names[j], metric)
			if score < threshold {
				continue
			}
			out = append(out, Diagnostic{
				Kind:     DiagPossibleDuplicate,
				SerialID: strings.TrimSpace(entries[j].SerialID),
				Other:    strings.TrimSpace(entries[i].SerialID),
				Message:  fmt.Sprintf("%q looks like entry #%s %q (similarity %.2f)", entries[j].FullName, strings.TrimSpace(entries[i].SerialID), entries[i].FullName, score),
			})
		}
	}
	return out
}
