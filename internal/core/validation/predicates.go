package validation

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// =============================================================================
// Predicates
// =============================================================================

const (
	// MinSiglaLength and MaxSiglaLength bound a subject code, in characters.
	MinSiglaLength = 2
	MaxSiglaLength = 10

	// MinCalificacion and MaxCalificacion bound a task score.
	MinCalificacion = 0
	MaxCalificacion = 100
)

// local-part "@" domain "." tld, none of them containing "@" or whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether email has a conservative address shape.
//
// Example:
//
//	IsValidEmail("user+tag@example.co") // true
//	IsValidEmail("user@.com")           // false
func IsValidEmail(email string) bool {
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return false
	}
	return emailPattern.MatchString(email)
}

// IsValidSigla reports whether a subject code is between 2 and 10 characters.
func IsValidSigla(sigla string) bool {
	n := utf8.RuneCountInString(sigla)
	return n >= MinSiglaLength && n <= MaxSiglaLength
}

// IsValidCalificacion reports whether score is a whole number in [0,100].
func IsValidCalificacion(score float64) bool {
	if !isWhole(score) {
		return false
	}
	return score >= MinCalificacion && score <= MaxCalificacion
}

// IsNotEmpty reports whether value has any non-whitespace content.
func IsNotEmpty(value string) bool {
	return strings.TrimSpace(value) != ""
}

// IsValidID reports whether id is a positive whole number that fits an int64.
func IsValidID(id float64) bool {
	return isWhole(id) && id > 0 && id < math.MaxInt64
}

func isWhole(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f)
}
