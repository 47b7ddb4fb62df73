package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"alumniport/internal/transliterate"
)

// ErrRegistrationParse marks a serial id that had no usable leading number.
// The normalizer still returns an id, built by zero-padding the raw serial.
var ErrRegistrationParse = errors.New("registration number parse failure")

var leadingDigits = regexp.MustCompile(`^\s*([0-9]+)`)

// RegistrationFormat produces ids of the form <Program>-<YearTag>-<seq>.
type RegistrationFormat struct {
	Program string
	YearTag string
	Width   int
}

// Normalize converts a registry serial ("57", "28 ka", "72A", "২৮ক") into a
// registration id. The non-numeric suffix is dropped, so "28" and "28 ka"
// produce the same id; Run reports that as a collision.
//
// A serial with more digits than Width keeps all of them, so the id is longer
// than Valid accepts; Run reports that as registration_overflow.
//
// When the serial has no leading digits the raw text is left-padded with
// zeros instead and the returned error wraps ErrRegistrationParse. The id is
// valid to use in that case; the error only flags the lossy conversion.
func (f RegistrationFormat) Normalize(serial string) (string, error) {
	raw := strings.TrimSpace(transliterate.Digits(serial))
	if m := leadingDigits.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return fmt.Sprintf("%s-%s-%0*d", f.Program, f.YearTag, f.Width, n), nil
		}
	}
	id := fmt.Sprintf("%s-%s-%s", f.Program, f.YearTag, zeroPad(raw, f.Width))
	return id, fmt.Errorf("serial %q: %w", serial, ErrRegistrationParse)
}

// Valid reports whether id has the exact <Program>-<YearTag>-<Width digits>
// shape. An empty YearTag accepts any four-digit year.
func (f RegistrationFormat) Valid(id string) bool {
	return f.pattern().MatchString(id)
}

// Parse splits a valid id into its year tag and sequence number.
func (f RegistrationFormat) Parse(id string) (year int, seq int, err error) {
	m := f.pattern().FindStringSubmatch(id)
	if m == nil {
		return 0, 0, fmt.Errorf("registration id %q does not match %s-%s-%s", id, f.Program, f.yearLabel(), strings.Repeat("N", f.Width))
	}
	year, _ = strconv.Atoi(m[1])
	seq, _ = strconv.Atoi(m[2])
	return year, seq, nil
}

func (f RegistrationFormat) pattern() *regexp.Regexp {
	year := `\d{4}`
	if f.YearTag != "" {
		year = regexp.QuoteMeta(f.YearTag)
	}
	return regexp.MustCompile(fmt.Sprintf(`^%s-(%s)-(\d{%d})$`, regexp.QuoteMeta(f.Program), year, f.Width))
}

func (f RegistrationFormat) yearLabel() string {
	if f.YearTag != "" {
		return f.YearTag
	}
	return "YYYY"
}

func zeroPad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return strings.Repeat("0", width-n) + s
}
