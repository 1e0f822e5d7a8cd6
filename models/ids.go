// ABOUTME: Strict identifier formats for the three entity kinds
// ABOUTME: Prefix plus exactly six decimal digits, e.g. OPP-000042
package models

import (
	"fmt"
	"regexp"
	"strconv"
)

// IDPrefix returns the identifier prefix for a kind.
func IDPrefix(kind Kind) string {
	switch kind {
	case KindOpportunity:
		return "OPP"
	case KindCompany:
		return "CMPY"
	case KindContact:
		return "CON"
	}
	panic(fmt.Sprintf("models: unknown entity kind %q", kind))
}

var idPatterns = map[Kind]*regexp.Regexp{
	KindOpportunity: regexp.MustCompile(`^OPP-\d{6}$`),
	KindCompany:     regexp.MustCompile(`^CMPY-\d{6}$`),
	KindContact:     regexp.MustCompile(`^CON-\d{6}$`),
}

// ValidID reports whether id matches the strict format for kind.
func ValidID(kind Kind, id string) bool {
	re, ok := idPatterns[kind]
	if !ok {
		panic(fmt.Sprintf("models: unknown entity kind %q", kind))
	}
	return re.MatchString(id)
}

// IDNumber extracts the numeric part of a well-formed identifier. Returns
// false for malformed or foreign-format ids.
func IDNumber(kind Kind, id string) (int, bool) {
	if !ValidID(kind, id) {
		return 0, false
	}
	n, err := strconv.Atoi(id[len(IDPrefix(kind))+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatID builds the identifier for kind with the given sequence number,
// zero-padded to six digits.
func FormatID(kind Kind, n int) string {
	return fmt.Sprintf("%s-%06d", IDPrefix(kind), n)
}
