package query

import "strings"

// Language selects which half of a combined bilingual label is shown.
type Language string

const (
	LangEnglish Language = "en"
	LangNepali  Language = "ne"
)

// Valid reports whether l is a recognized language. The empty value is
// accepted and treated as English.
func (l Language) Valid() bool {
	return l == "" || l == LangEnglish || l == LangNepali
}

func (l Language) orDefault() Language {
	if l == "" {
		return LangEnglish
	}
	return l
}

// Project strips a combined "English [[नेपाली]]" label to one language.
// English keeps the part before the first bracket; Nepali keeps the inside
// of the first [[...]] pair and falls back to the raw string when no
// bracketed form is present. Projecting an already-projected string is a
// no-op, which lets filters and option enumeration run on projected data
// without tracking whether projection happened.
func (l Language) Project(s string) string {
	if l.orDefault() == LangNepali {
		start := strings.Index(s, "[[")
		if start < 0 {
			return s
		}
		rest := s[start+2:]
		end := strings.Index(rest, "]]")
		if end < 0 {
			return s
		}
		return strings.TrimSpace(rest[:end])
	}

	if i := strings.Index(s, "["); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
