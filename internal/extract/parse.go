// Package extract turns OCR text of a registry page into source entries.
package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"alumniport/internal/models"
	"alumniport/internal/transliterate"
)

// ErrEmptyExtraction is returned when no line of the text produced an entry.
var ErrEmptyExtraction = errors.New("no alumni records found in text")

const minLineRunes = 5

var (
	// A serial is digits with an optional "ka"/"kha"/Bengali-letter suffix,
	// ended by "।", ".", ":" or ")". OCR often drops that terminator, so up to
	// three digits followed by a space also count; a four-digit year at the
	// start of a line does not. A Latin suffix must be attached ("72A").
	serialRe = regexp.MustCompile(`^(?:` +
		`([0-9০-৯]+[A-Za-z])(?:\s*[।.:)]|\s)` +
		`|([0-9০-৯]+(?:\s*(?:ka|kha|[ক-হ]))?)\s*[।.:)]` +
		`|([0-9০-৯]{1,3}(?:\s*(?:ka|kha|[ক-হ]))?)\s)\s*`)
	parenYearRe = regexp.MustCompile(`\(\s*([0-9০-৯]{4})\s*\)`)
	bareYearRe  = regexp.MustCompile(`(?:^|[^0-9০-৯])((?:19|20|১৯|২০)[0-9০-৯]{2})(?:[^0-9০-৯]|$)`)
	parenRe     = regexp.MustCompile(`\([^)]*\)`)
	leadNumRe   = regexp.MustCompile(`^[0-9]+`)
)

const tokenCutset = "।॥.,:;-–()[]{}\"'*"

var (
	headerWords = normalizedSet("নাম", "name", "শ্রেণী", "class", "বছর", "year")
	// "মারা গেছেন" is the long form of the marker.
	deceasedWords = normalizedSet("প্রয়াত", "মৃত", "মারা", "গেছেন", "deceased", "late")
	englishTitles = map[string]models.Honorific{
		"dr":   models.HonorificDr,
		"prof": models.HonorificProf,
		"moh":  models.HonorificMoh,
		"md":   models.HonorificMoh,
		"shri": models.HonorificShri,
		"smt":  models.HonorificSmt,
		"mr":   models.HonorificMr,
		"ms":   models.HonorificMs,
	}
)

func normalizedSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[transliterate.Normalize(w)] = true
	}
	return m
}

// Parser reads OCR text line by line. Its zero value is usable.
type Parser struct {
	// Source is copied onto every entry, usually the image file name.
	Source string
	Logger *zap.Logger
}

// ParseLines parses text with a zero Parser.
func ParseLines(text string) ([]models.AlumniSourceEntry, error) {
	return Parser{}.Parse(text)
}

// Parse extracts one entry per usable line. A line without a serial number
// takes the previous numeric serial plus one.
func (p Parser) Parse(text string) ([]models.AlumniSourceEntry, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var (
		entries []models.AlumniSourceEntry
		last    int
	)
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(transliterate.Normalize(raw))
		if line == "" || utf8.RuneCountInString(line) < minLineRunes {
			continue
		}
		e, ok := p.parseLine(line)
		if !ok {
			log.Debug("line skipped", zap.Int("line", i+1), zap.String("text", line))
			continue
		}
		if e.SerialID == "" {
			last++
			e.SerialID = strconv.Itoa(last)
		} else if n, err := strconv.Atoi(leadNumRe.FindString(e.SerialID)); err == nil {
			last = n
		}
		log.Debug("line parsed",
			zap.Int("line", i+1),
			zap.String("serial", e.SerialID),
			zap.String("name", e.FullName),
			zap.String("year", e.YearOfLeaving),
			zap.Bool("deceased", e.IsDeceased))
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyExtraction
	}
	return entries, nil
}

func (p Parser) parseLine(line string) (models.AlumniSourceEntry, bool) {
	e := models.AlumniSourceEntry{Source: p.Source}

	rest := line
	if m := serialRe.FindStringSubmatchIndex(line); m != nil {
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] >= 0 {
				e.SerialID = strings.Join(strings.Fields(transliterate.Digits(line[m[g]:m[g+1]])), " ")
				break
			}
		}
		rest = line[m[1]:]
	} else if isHeader(line) {
		return e, false
	}

	if m := parenYearRe.FindStringSubmatch(rest); m != nil {
		e.YearOfLeaving = transliterate.Digits(m[1])
	} else if m := bareYearRe.FindStringSubmatchIndex(rest); m != nil {
		e.YearOfLeaving = transliterate.Digits(rest[m[2]:m[3]])
		rest = rest[:m[2]] + " " + rest[m[3]:]
	}

	for _, f := range strings.Fields(rest) {
		if deceasedWords[strings.ToLower(strings.Trim(f, tokenCutset))] {
			e.IsDeceased = true
			break
		}
	}

	var tokens []string
	for _, f := range strings.Fields(parenRe.ReplaceAllString(rest, " ")) {
		tok := strings.Trim(f, tokenCutset)
		if tok == "" || deceasedWords[strings.ToLower(tok)] {
			continue
		}
		if len(tokens) == 0 {
			if h, ok := title(f); ok {
				if e.Honorific == models.HonorificNone {
					e.Honorific = h
				}
				continue
			}
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) < 2 {
		return e, false
	}

	name := strings.Join(tokens, " ")
	if transliterate.ContainsBengali(name) {
		e.NativeName = name
		e.FullName = transliterate.Text(name)
	} else {
		e.FullName = name
	}
	return e, true
}

// title recognises a leading title token in either script. Bengali titles
// keep their trailing visarga, so the raw field is tried before trimming.
func title(field string) (models.Honorific, bool) {
	if t, ok := transliterate.Titles[field]; ok {
		return models.Honorific(t), true
	}
	tok := strings.Trim(field, tokenCutset)
	if t, ok := transliterate.Titles[tok]; ok {
		return models.Honorific(t), true
	}
	h, ok := englishTitles[strings.ToLower(tok)]
	return h, ok
}

func isHeader(line string) bool {
	for _, f := range strings.Fields(line) {
		if headerWords[strings.ToLower(strings.Trim(f, tokenCutset))] {
			return true
		}
	}
	return false
}
