package pipeline

import "strings"

// NameParts is a positional split of a full name.
type NameParts struct {
	First  string
	Middle string
	Last   string
}

// SplitName takes the first token as the given name, the last as the family
// name and everything between as the middle name.
//
// Multi-word family names ("Roy Chowdhury", "De Sarkar") come out with the
// last word as the surname and the rest folded into Middle. That is a known
// limitation of the positional rule; no surname list is consulted.
func SplitName(full string) NameParts {
	tokens := strings.Fields(full)
	switch len(tokens) {
	case 0:
		return NameParts{}
	case 1:
		return NameParts{First: tokens[0]}
	case 2:
		return NameParts{First: tokens[0], Last: tokens[1]}
	default:
		return NameParts{
			First:  tokens[0],
			Middle: strings.Join(tokens[1:len(tokens)-1], " "),
			Last:   tokens[len(tokens)-1],
		}
	}
}

// Join reassembles the parts with single spaces, skipping empty ones.
func (p NameParts) Join() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{p.First, p.Middle, p.Last} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
