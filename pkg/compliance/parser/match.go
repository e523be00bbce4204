package parser

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold returns the case-folded form of s.
// A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// containsAnyFold reports whether s contains any pattern, ignoring case.
func containsAnyFold(s string, patterns []string) bool {
	fs := fold(s)
	for _, p := range patterns {
		if strings.Contains(fs, fold(p)) {
			return true
		}
	}
	return false
}

// containsAllFold reports whether s contains every pattern, ignoring case.
// An empty pattern list never matches.
func containsAllFold(s string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	fs := fold(s)
	for _, p := range patterns {
		if !strings.Contains(fs, fold(p)) {
			return false
		}
	}
	return true
}

// IsSection13Published reports whether stage marks 13-publication.
func IsSection13Published(stage string, p StagePatterns) bool {
	return stage != "" && containsAnyFold(stage, p.Section13Published)
}

// IsSection92Published reports whether stage marks 9(2)-publication.
func IsSection92Published(stage string, p StagePatterns) bool {
	return stage != "" && containsAllFold(stage, p.Section92Published)
}

// IsAbove90 reports whether stage marks field survey above 90%.
func IsAbove90(stage string, p StagePatterns) bool {
	stage = strings.TrimSpace(stage)
	return stage != "" && containsAnyFold(stage, p.Above90)
}

// IsExcludedSheet reports whether a sheet name is on the exclusion list.
// Names are compared trimmed and case-folded.
func IsExcludedSheet(name string, excluded []string) bool {
	key := fold(strings.TrimSpace(name))
	for _, e := range excluded {
		if key == fold(strings.TrimSpace(e)) {
			return true
		}
	}
	return false
}

// tokenSet is a case-folded lookup of trimmed tokens.
type tokenSet map[string]struct{}

func newTokenSet(tokens []string) tokenSet {
	set := make(tokenSet, len(tokens))
	for _, t := range tokens {
		set[fold(strings.TrimSpace(t))] = struct{}{}
	}
	return set
}

func (s tokenSet) has(v string) bool {
	_, ok := s[fold(strings.TrimSpace(v))]
	return ok
}
