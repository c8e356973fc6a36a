// Package nlquery turns free-text queries such as
// "palindromic strings longer than 5 characters" into a filter.Set.
//
// The interpreter is a fixed, ordered list of independent rules run over
// the lowercased query. Each rule that matches writes one or more fields of
// an accumulating filter.Set; a later rule overwrites fields written by an
// earlier one. There is no grammar and no ambiguity resolution beyond that
// ordering.
//
//	rule                 pattern                                   effect
//	palindrome           palindrom(e|ic)                           is_palindrome = true
//	word_count           (one..five|single|<digits>) word          word_count = N
//	longer_than          longer than <N>                           min_length = N+1
//	shorter_than         shorter than <N>                          max_length = N-1
//	exact_length         exactly <N> characters                    min_length = max_length = N
//	contains_letter      contain(s|ing) the letter <a-z>           contains_character
//	first_vowel          first vowel                               contains_character = "a"
package nlquery

import (
	"math"
	"regexp"
	"unicode"

	"github.com/dreamware/stranalyzer/internal/analysis"
	"github.com/dreamware/stranalyzer/internal/filter"
)

// Interpreted is a parsed query: the caller's text and the filters derived
// from it.
type Interpreted struct {
	Original      string     `json:"original"`
	ParsedFilters filter.Set `json:"parsed_filters"`
}

// rule matches pattern against the lowercased query and, on a match, lets
// set update the filter. set reports whether it wrote anything.
type rule struct {
	pattern *regexp.Regexp
	set     func(m []string, s *filter.Set) bool
	name    string
}

// Word boundaries and whitespace follow Unicode, not just ASCII.
const (
	nonWord = `[^\p{L}\p{N}_]`
	space   = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`
)

var numberWords = map[string]int{
	"one":    1,
	"two":    2,
	"three":  3,
	"four":   4,
	"five":   5,
	"single": 1,
}

var rules = []rule{
	{
		name:    "palindrome",
		pattern: regexp.MustCompile(`palindrom(?:e|ic)`),
		set: func(_ []string, s *filter.Set) bool {
			s.IsPalindrome = filter.Bool(true)
			return true
		},
	},
	{
		name:    "word_count",
		pattern: regexp.MustCompile(`(?:(?:^|` + nonWord + `)(one|two|three|four|five|single)|(\p{Nd}+))` + space + `+word`),
		set: func(m []string, s *filter.Set) bool {
			if n, ok := numberWords[m[1]]; ok {
				s.WordCount = filter.Int(n)
				return true
			}
			n, ok := atoi(m[2])
			if !ok {
				return false
			}
			s.WordCount = filter.Int(n)
			return true
		},
	},
	{
		name:    "longer_than",
		pattern: regexp.MustCompile(`longer than (\p{Nd}+)`),
		set: func(m []string, s *filter.Set) bool {
			n, ok := atoi(m[1])
			if !ok {
				return false
			}
			s.MinLength = filter.Int(n + 1)
			return true
		},
	},
	{
		name:    "shorter_than",
		pattern: regexp.MustCompile(`shorter than (\p{Nd}+)`),
		set: func(m []string, s *filter.Set) bool {
			n, ok := atoi(m[1])
			if !ok {
				return false
			}
			s.MaxLength = filter.Int(n - 1)
			return true
		},
	},
	{
		name:    "exact_length",
		pattern: regexp.MustCompile(`exactly (\p{Nd}+) characters`),
		set: func(m []string, s *filter.Set) bool {
			n, ok := atoi(m[1])
			if !ok {
				return false
			}
			s.MinLength = filter.Int(n)
			s.MaxLength = filter.Int(n)
			return true
		},
	},
	{
		name:    "contains_letter",
		pattern: regexp.MustCompile(`contain(?:s|ing) the letter ([a-z])`),
		set: func(m []string, s *filter.Set) bool {
			s.ContainsCharacter = filter.String(m[1])
			return true
		},
	},
	{
		// Always "a": a fixed stand-in, not a search for the first vowel.
		name:    "first_vowel",
		pattern: regexp.MustCompile(`first vowel`),
		set: func(_ []string, s *filter.Set) bool {
			s.ContainsCharacter = filter.String("a")
			return true
		},
	},
}

// ruleNames returns the rule names in evaluation order.
func ruleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// atoi parses a run of decimal digits from any script. It reports false
// when the value overflows int.
func atoi(digits string) (int, bool) {
	n := 0
	for _, r := range digits {
		d := digitValue(r)
		if d < 0 || n > (math.MaxInt-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	return n, digits != ""
}

// digitValue returns the value of a decimal digit rune, or -1. Unicode
// allocates each script's digits as a contiguous run from zero, and
// adjacent runs are whole blocks of ten.
func digitValue(r rune) int {
	if !unicode.IsDigit(r) {
		return -1
	}
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return int(r-start) % 10
}

// Parse interprets query. It returns false when no rule produced a filter.
func Parse(query string) (Interpreted, bool) {
	text := analysis.Lower(query)

	var s filter.Set
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		r.set(m, &s)
	}

	if s.IsEmpty() {
		return Interpreted{}, false
	}
	return Interpreted{Original: query, ParsedFilters: s}, true
}

// Matched returns the names of the rules whose pattern matches query, in
// evaluation order. It is intended for diagnostics and logging.
func Matched(query string) []string {
	text := analysis.Lower(query)

	var names []string
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(text); m != nil && r.set(m, &filter.Set{}) {
			names = append(names, r.name)
		}
	}
	return names
}
