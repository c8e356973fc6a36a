// Package analysis computes the derived properties of a string value.
//
// # Overview
//
// Every record stored by the service carries a Properties value computed
// exactly once, at insertion time. Compute is pure and total: any string,
// including the empty string, is valid input and the same input always
// produces the same output.
//
// # Properties
//
//	length                   number of Unicode code points
//	is_palindrome            lowercase(value) == reverse(lowercase(value))
//	unique_characters        number of distinct code points
//	word_count               number of whitespace-delimited tokens
//	character_frequency_map  code point -> occurrence count
//	sha256_hash              hex SHA-256 of the UTF-8 bytes
//
// Lowercasing uses full Unicode case mapping from golang.org/x/text/cases,
// so multi-rune lowercase forms (for example U+0130) are compared the same
// way they are displayed.
//
// # Usage
//
//	props := analysis.Compute("racecar")
//	// props.Length == 7, props.IsPalindrome == true
//
//	id := analysis.Hash("racecar")
//	// id == props.SHA256Hash
package analysis
