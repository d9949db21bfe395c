package types

import "strings"

// Base theme names.
const (
	BaseLight  = "light"
	BaseDark   = "dark"
	BaseCustom = "custom"
)

// ParseBase normalizes a base-theme string case-insensitively.
// Unrecognized values fall back to light.
func ParseBase(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case BaseDark:
		return BaseDark
	case BaseCustom:
		return BaseCustom
	default:
		return BaseLight
	}
}

// Theme is the persisted UI theme: a base name, arbitrary color tokens,
// and an optional confetti palette of up to five colors.
type Theme struct {
	Base     string            `json:"base"`
	Colors   map[string]string `json:"colors"`
	Confetti []string          `json:"confettiColors"`
}
