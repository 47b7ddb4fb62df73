package pipeline

import (
	"strings"

	"alumniport/internal/models"
)

const (
	fallbackFirst = "alumni"
	fallbackLast  = "member"
)

// Company labels.
const (
	CompanyDeceased = "Deceased"
	CompanyMedical  = "Medical Practice"
	CompanyAcademic = "Academic Institution"
)

// EmailFormat builds placeholder addresses for members without one.
type EmailFormat struct {
	Domain      string
	IncludeYear bool
}

// Address returns first.last[.year]@domain. Parts are lowercased and reduced
// to [a-z0-9]; a part that ends up empty is replaced by "alumni" or "member".
func (f EmailFormat) Address(first, last, year string) string {
	local := emailPart(first, fallbackFirst) + "." + emailPart(last, fallbackLast)
	if f.IncludeYear {
		if y := emailPart(year, ""); y != "" {
			local += "." + y
		}
	}
	return local + "@" + f.Domain
}

func emailPart(s, fallback string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

// Affiliation picks the company label. Deceased wins over any honorific.
func Affiliation(h models.Honorific, deceased bool) string {
	switch {
	case deceased:
		return CompanyDeceased
	case h == models.HonorificDr:
		return CompanyMedical
	case h == models.HonorificProf:
		return CompanyAcademic
	default:
		return ""
	}
}
