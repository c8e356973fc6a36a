// Package filter applies structured, conjunctive filter sets to stored
// string records.
//
// A Set holds up to five optional predicates. Absent predicates are nil;
// every present predicate must hold for a record to be kept. A Set also
// serves as the echo returned to callers: it marshals with only its present
// fields, booleans as booleans and integers as integers.
package filter

import (
	"fmt"
	"strings"

	"github.com/dreamware/stranalyzer/internal/storage"
)

// Set is a collection of optional predicates applied with AND semantics.
type Set struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// Bool returns a pointer to b, for building Sets in literals.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for building Sets in literals.
func Int(n int) *int { return &n }

// String returns a pointer to s, for building Sets in literals.
func String(s string) *string { return &s }

// IsEmpty reports whether no predicate is present.
func (s Set) IsEmpty() bool {
	return s.IsPalindrome == nil &&
		s.MinLength == nil &&
		s.MaxLength == nil &&
		s.WordCount == nil &&
		s.ContainsCharacter == nil
}

// Conflict reports a length range that no record can satisfy, that is
// both bounds present with min_length above max_length.
func (s Set) Conflict() (string, bool) {
	if s.MinLength == nil || s.MaxLength == nil || *s.MinLength <= *s.MaxLength {
		return "", false
	}
	return fmt.Sprintf("min_length (%d) cannot be greater than max_length (%d)",
		*s.MinLength, *s.MaxLength), true
}

// Match reports whether rec satisfies every present predicate.
func (s Set) Match(rec storage.Record) bool {
	p := rec.Properties
	if s.IsPalindrome != nil && p.IsPalindrome != *s.IsPalindrome {
		return false
	}
	if s.MinLength != nil && p.Length < *s.MinLength {
		return false
	}
	if s.MaxLength != nil && p.Length > *s.MaxLength {
		return false
	}
	if s.WordCount != nil && p.WordCount != *s.WordCount {
		return false
	}
	if s.ContainsCharacter != nil && !strings.Contains(rec.Value, *s.ContainsCharacter) {
		return false
	}
	return true
}

// Apply returns the records that satisfy s, in their original order.
// An empty set returns records unchanged.
func Apply(records []storage.Record, s Set) []storage.Record {
	if s.IsEmpty() {
		return records
	}

	out := make([]storage.Record, 0, len(records))
	for _, rec := range records {
		if s.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}
