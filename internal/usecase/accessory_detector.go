package usecase

import (
	"log/slog"
	"regexp"
	"strings"
)

// Matches anything that separates name tokens ("USB-C", "Cable/Charger")
var tokenSeparatorRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// DefaultAccessoryKeywords are the name tokens that mark a cheap accessory
var DefaultAccessoryKeywords = []string{
	"cable",
	"usb",
	"case",
	"cover",
	"protector",
	"mouse",
	"adapter",
	"charger",
}

// AccessoryDetector decides whether a product name looks like a cheap accessory
type AccessoryDetector struct {
	keywords           map[string]bool
	enableDebugLogging bool
}

// NewAccessoryDetector creates a detector for the given keywords.
// Keywords are matched case-insensitively against whole name tokens.
func NewAccessoryDetector(keywords []string, enableDebugLogging bool) *AccessoryDetector {
	if len(keywords) == 0 {
		keywords = DefaultAccessoryKeywords
	}
	set := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set[k] = true
		}
	}
	return &AccessoryDetector{keywords: set, enableDebugLogging: enableDebugLogging}
}

// Match returns the first accessory keyword found in name, if any.
// Simple plurals ("cables", "cases", "covers") count as the keyword.
func (d *AccessoryDetector) Match(name string) (string, bool) {
	for _, token := range nameTokens(name) {
		for _, candidate := range []string{token, strings.TrimSuffix(token, "s"), strings.TrimSuffix(token, "es")} {
			if d.keywords[candidate] {
				if d.enableDebugLogging {
					slog.Debug("accessory keyword matched", "name", name, "keyword", candidate)
				}
				return candidate, true
			}
		}
	}
	return "", false
}

// nameTokens lower-cases name and splits it on anything that is not a
// letter or digit
func nameTokens(name string) []string {
	return strings.Fields(tokenSeparatorRegex.ReplaceAllString(strings.ToLower(name), " "))
}
