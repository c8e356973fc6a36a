package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Properties holds the values derived from a string at creation time.
type Properties struct {
	Length                int            `json:"length"`
	IsPalindrome          bool           `json:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters"`
	WordCount             int            `json:"word_count"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
	SHA256Hash            string         `json:"sha256_hash"`
}

// Hash returns the hex-encoded SHA-256 digest of value's UTF-8 bytes.
// It is the record identifier used by the store.
func Hash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Compute derives all properties of value.
func Compute(value string) Properties {
	freq := make(map[string]int)
	for _, r := range value {
		freq[string(r)]++
	}

	return Properties{
		Length:                utf8.RuneCountInString(value),
		IsPalindrome:          IsPalindrome(value),
		UniqueCharacters:      len(freq),
		WordCount:             len(strings.FieldsFunc(value, IsSpace)),
		CharacterFrequencyMap: freq,
		SHA256Hash:            Hash(value),
	}
}

// IsSpace reports whether r separates words. It extends unicode.IsSpace
// with the information separators U+001C to U+001F.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// IsPalindrome reports whether the lowercased value reads the same in both
// directions, compared code point by code point.
func IsPalindrome(value string) bool {
	runes := []rune(Lower(value))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		if runes[i] != runes[j] {
			return false
		}
	}
	return true
}

// Lower applies language-neutral Unicode lowercasing.
// A new caser is created per call because cases.Caser is not safe for
// concurrent use.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Clone returns a deep copy of p.
func (p Properties) Clone() Properties {
	out := p
	if p.CharacterFrequencyMap != nil {
		out.CharacterFrequencyMap = make(map[string]int, len(p.CharacterFrequencyMap))
		for k, v := range p.CharacterFrequencyMap {
			out.CharacterFrequencyMap[k] = v
		}
	}
	return out
}
