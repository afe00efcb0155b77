package models

import "strings"

// Localized is an English/Arabic display pair.
type Localized struct {
	En string `json:"en"`
	Ar string `json:"ar,omitempty"`
}

// Resolve returns the Arabic text for "ar" locales when present, English otherwise.
func (l Localized) Resolve(locale string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(locale)), "ar") && strings.TrimSpace(l.Ar) != "" {
		return l.Ar
	}
	return l.En
}
