// Package transliterate approximates Bengali registry text in Latin script.
// Known words come from a dictionary; everything else goes through a
// rune-level map. The output is a reading aid for manual review, not a
// standard romanisation.
package transliterate

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	hasanta = '্'
	nukta   = '়'
)

var digits = map[rune]rune{
	'০': '0', '১': '1', '২': '2', '৩': '3', '৪': '4',
	'৫': '5', '৬': '6', '৭': '7', '৮': '8', '৯': '9',
}

var vowels = map[rune]string{
	'অ': "a", 'আ': "a", 'ই': "i", 'ঈ': "i", 'উ': "u", 'ঊ': "u",
	'ঋ': "ri", 'এ': "e", 'ঐ': "oi", 'ও': "o", 'ঔ': "ou",
}

var vowelSigns = map[rune]string{
	'া': "a", 'ি': "i", 'ী': "i", 'ু': "u", 'ূ': "u",
	'ৃ': "ri", 'ে': "e", 'ৈ': "oi", 'ো': "o", 'ৌ': "ou",
}

var consonants = map[rune]string{
	'ক': "k", 'খ': "kh", 'গ': "g", 'ঘ': "gh", 'ঙ': "ng",
	'চ': "ch", 'ছ': "chh", 'জ': "j", 'ঝ': "jh", 'ঞ': "n",
	'ট': "t", 'ঠ': "th", 'ড': "d", 'ঢ': "dh", 'ণ': "n",
	'ত': "t", 'থ': "th", 'দ': "d", 'ধ': "dh", 'ন': "n",
	'প': "p", 'ফ': "ph", 'ব': "b", 'ভ': "bh", 'ম': "m",
	'য': "j", 'র': "r", 'ল': "l", 'শ': "sh", 'ষ': "sh",
	'স': "s", 'হ': "h", 'ৎ': "t",
}

// nukta forms; NFC keeps these decomposed as base + U+09BC.
var nuktaForms = map[rune]string{
	'ড': "r",
	'ঢ': "rh",
	'য': "y",
}

var signs = map[rune]string{
	'ং': "ng",
	'ঃ': "h",
	'ঁ': "",
}

// Titles maps Bengali title prefixes to their English form.
var Titles = map[string]string{
	"ডক্টর":    "Dr.",
	"ডাঃ":      "Dr.",
	"ডা.":      "Dr.",
	"প্রফেসর":  "Prof.",
	"প্রফ":     "Prof.",
	"অধ্যাপক":  "Prof.",
	"অধ্যাঃ":   "Prof.",
	"মোঃ":      "Moh.",
	"শ্রীমতি":  "Smt.",
	"শ্রী":     "Shri",
	"মিস্টার": "Mr.",
	"মিস":      "Ms.",
}

var words = map[string]string{
	"কুমার":   "Kumar",
	"চন্দ্র":  "Chandra",
	"প্রসাদ":  "Prasad",
	"কান্ত":   "Kanta",
	"শঙ্কর":   "Shankar",
	"রঞ্জন":   "Ranjan",
	"কৃষ্ণ":   "Krishna",
	"নাথ":     "Nath",
	"মৃত":     "Deceased",
	"প্রয়াত": "Deceased",
	"বছর":     "Year",
	"শ্রেণী":  "Class",
	"পাস":     "Pass",

	"চট্টোপাধ্যায়":   "Chattopadhyay",
	"মুখোপাধ্যায়":    "Mukherjee",
	"মুখার্জী":        "Mukherjee",
	"বন্দ্যোপাধ্যায়": "Bandyopadhyay",
	"গঙ্গোপাধ্যায়":   "Gangopadhyay",
	"ভট্টাচার্য":      "Bhattacharya",
	"ভট্টাচার্য্য":    "Bhattacharya",
	"চক্রবর্তী":       "Chakraborty",
	"গাঙ্গুলী":        "Ganguly",
	"রায়":            "Roy",
	"রায়চৌধুরী":      "Roychowdhury",
	"সেন":             "Sen",
	"সেনগুপ্ত":        "Sengupta",
	"দাশগুপ্ত":        "Dasgupta",
	"ঘোষ":             "Ghosh",
	"দাস":             "Das",
	"দে":              "De",
	"বসু":             "Basu",
	"মজুমদার":         "Mazumdar",
	"সিংহ":            "Singh",
	"মিত্র":           "Mitra",
	"গুপ্ত":           "Gupta",
	"গুহ":             "Guha",
	"সরকার":           "Sarkar",
	"সমাদ্দার":        "Samaddar",
	"মাশ্চটক":         "Mashtak",
	"বিশ্বাস":         "Biswas",
	"মল্লিক":          "Mallick",
	"প্রামাণিক":       "Pramanik",
}

func init() {
	Titles = normalizeKeys(Titles)
	words = normalizeKeys(words)
}

func normalizeKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[norm.NFC.String(k)] = v
	}
	return out
}

// Normalize returns s in NFC form. OCR output and typed input disagree on
// how nukta letters are encoded; matching only works after this.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// ContainsBengali reports whether s has any rune from the Bengali block.
func ContainsBengali(s string) bool {
	for _, r := range s {
		if r >= 0x0980 && r <= 0x09FF {
			return true
		}
	}
	return false
}

// Digits replaces Bengali numerals with ASCII digits and leaves everything
// else untouched.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := digits[r]; ok {
			return d
		}
		return r
	}, s)
}

// Text transliterates each whitespace-separated token of s.
func Text(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = Token(f)
	}
	return strings.Join(fields, " ")
}

// Token transliterates a single word. Tokens without Bengali runes are
// returned unchanged.
func Token(tok string) string {
	tok = Normalize(tok)
	if !ContainsBengali(tok) {
		return tok
	}
	if w, ok := words[tok]; ok {
		return w
	}
	if t, ok := Titles[tok]; ok {
		return t
	}

	runes := []rune(tok)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if d, ok := digits[r]; ok {
			b.WriteRune(d)
			continue
		}
		if v, ok := vowels[r]; ok {
			b.WriteString(v)
			continue
		}
		if v, ok := vowelSigns[r]; ok {
			b.WriteString(v)
			continue
		}
		if s, ok := signs[r]; ok {
			b.WriteString(s)
			continue
		}
		if r == hasanta || r == nukta {
			continue
		}
		base, ok := consonants[r]
		if !ok {
			b.WriteRune(r)
			continue
		}

		next := i + 1
		if next < len(runes) && runes[next] == nukta {
			if f, ok := nuktaForms[r]; ok {
				base = f
			}
			next++
		} else if r == 'য' && i > 0 && runes[i-1] == hasanta {
			// ya-phala
			base = "y"
		}
		b.WriteString(base)

		switch {
		case next >= len(runes):
			// inherent vowel is silent at the end of a word
		case runes[next] == hasanta:
			next++
		case vowelSigns[runes[next]] != "":
			b.WriteString(vowelSigns[runes[next]])
			next++
		case r != 'ৎ':
			b.WriteString("a")
		}
		i = next - 1
	}
	return capitalize(b.String())
}

func capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
