package matching

import (
	"regexp"
	"strings"
)

var (
	cardPrefix = regexp.MustCompile(`(?i)^(DEBIT CARD PURCHASE|CREDIT CARD|ACH|CHECK)\b\s*`)

	trailingRef = regexp.MustCompile(`\s+\d{4}$`)
)

// ExtractMerchant strips the card network prefix and the trailing four digit
// reference that banks add to statement descriptions.
func ExtractMerchant(description string) string {
	m := strings.TrimSpace(description)
	m = cardPrefix.ReplaceAllString(m, "")
	m = trailingRef.ReplaceAllString(m, "")

	return strings.TrimSpace(m)
}
