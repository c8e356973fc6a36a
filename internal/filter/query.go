package filter

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidParameter is returned for a parameter that is not a valid integer
	ErrInvalidParameter = errors.New("invalid query parameter value or type")

	// ErrInvalidCharacter is returned when contains_character is not exactly one code point
	ErrInvalidCharacter = errors.New("contains_character must be a single character")
)

// Query parameter names accepted by FromQuery.
const (
	ParamIsPalindrome      = "is_palindrome"
	ParamMinLength         = "min_length"
	ParamMaxLength         = "max_length"
	ParamWordCount         = "word_count"
	ParamContainsCharacter = "contains_character"
)

// FromQuery builds a Set from URL query parameters.
//
// Parameters are read in a fixed order (is_palindrome, min_length,
// max_length, word_count, contains_character) and the first invalid one
// determines the error. A repeated parameter uses its last value.
// is_palindrome is true only for "true" in any letter case; every other
// value means false.
func FromQuery(q url.Values) (Set, error) {
	var s Set

	if v, ok := last(q, ParamIsPalindrome); ok {
		s.IsPalindrome = Bool(strings.EqualFold(v, "true"))
	}

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{ParamMinLength, &s.MinLength},
		{ParamMaxLength, &s.MaxLength},
		{ParamWordCount, &s.WordCount},
	} {
		v, ok := last(q, p.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return Set{}, ErrInvalidParameter
		}
		*p.dst = Int(n)
	}

	if v, ok := last(q, ParamContainsCharacter); ok {
		if utf8.RuneCountInString(v) != 1 {
			return Set{}, ErrInvalidCharacter
		}
		s.ContainsCharacter = String(v)
	}

	return s, nil
}

func last(q url.Values, key string) (string, bool) {
	vs, ok := q[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[len(vs)-1], true
}

// Query encodes s as URL query parameters that FromQuery reads back
// unchanged. Absent predicates are omitted.
func (s Set) Query() url.Values {
	q := url.Values{}
	if s.IsPalindrome != nil {
		q.Set(ParamIsPalindrome, strconv.FormatBool(*s.IsPalindrome))
	}
	if s.MinLength != nil {
		q.Set(ParamMinLength, strconv.Itoa(*s.MinLength))
	}
	if s.MaxLength != nil {
		q.Set(ParamMaxLength, strconv.Itoa(*s.MaxLength))
	}
	if s.WordCount != nil {
		q.Set(ParamWordCount, strconv.Itoa(*s.WordCount))
	}
	if s.ContainsCharacter != nil {
		q.Set(ParamContainsCharacter, *s.ContainsCharacter)
	}
	return q
}
