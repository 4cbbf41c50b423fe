// Package naming turns raw database identifiers into readable phrases.
package naming

import (
	"regexp"
	"strings"
	"unicode"
)

// abbreviations maps common banking column-name shorthand to full words.
var abbreviations = map[string]string{
	"acct": "account",
	"acc":  "account",
	"txn":  "transaction",
	"dt":   "date",
	"amt":  "amount",
	"num":  "number",
	"no":   "number",
	"cust": "customer",
	"bal":  "balance",
	"kyc":  "know your customer",
	"aml":  "anti money laundering",
	"cd":   "code",
	"id":   "identifier",
}

// camelBoundary matches a lowercase letter or digit followed by an uppercase
// letter, the token boundary inside camelCase identifiers.
var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// SplitIdentifier splits a snake_case or camelCase identifier into lowercase
// word tokens, expanding known banking abbreviations. Degenerate input
// yields an empty slice.
func SplitIdentifier(name string) []string {
	snake := strings.ToLower(camelBoundary.ReplaceAllString(name, "${1}_${2}"))

	var tokens []string
	for _, part := range strings.Split(snake, "_") {
		if part == "" {
			continue
		}
		if full, ok := abbreviations[part]; ok {
			tokens = append(tokens, full)
			continue
		}
		tokens = append(tokens, part)
	}
	return tokens
}

// Humanize renders an identifier as a readable space-separated phrase,
// e.g. "acct_open_dt" -> "account open date". Total function; empty or
// degenerate identifiers yield an empty string.
func Humanize(name string) string {
	return strings.Join(SplitIdentifier(name), " ")
}

// Capitalize upper-cases the first rune of a phrase. Unlike
// strings.Title it leaves the rest of the phrase untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
