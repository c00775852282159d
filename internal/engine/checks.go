package engine

import (
	"fmt"
	"regexp"
)

// Setup installs one custom rule type on a registry, with messages for
// the given locale. The statically-known Setups list below replaces
// runtime discovery of rule definitions: adding a check means adding a
// Setup here.
type Setup func(locale string, reg Registry) error

// Setups is the full list of custom rule types. RegisterAll runs it once
// per locale change.
var Setups = []Setup{
	setupSlug,
	setupZipcode,
}

// RegisterAll installs every custom rule type for the given locale.
// Failures are structural (a bad check definition) and abort registration.
func RegisterAll(locale string, reg Registry) error {
	for _, setup := range Setups {
		if err := setup(locale, reg); err != nil {
			return fmt.Errorf("register custom checks: %w", err)
		}
	}
	return nil
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func setupSlug(locale string, reg Registry) error {
	return reg.Register("slug", func(value any, _ []string) bool {
		s, ok := value.(string)
		return ok && slugPattern.MatchString(s)
	}, message(locale, "slug"))
}

var zipcodePattern = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)

func setupZipcode(locale string, reg Registry) error {
	return reg.Register("zipcode", func(value any, _ []string) bool {
		s, ok := value.(string)
		return ok && zipcodePattern.MatchString(s)
	}, message(locale, "zipcode"))
}

// messages holds the locale-keyed failure templates; %s is the field
// name. Unknown locales fall back to English.
var messages = map[string]map[string]string{
	"en": {
		"slug":     "%s must be a URL-safe slug",
		"zipcode":  "%s must be a valid zip code",
		"required": "%s is required",
		"email":    "%s must be a valid email address",
		"min":      "%s is too small",
		"max":      "%s is too large",
	},
	"es": {
		"slug":     "%s debe ser un slug válido",
		"zipcode":  "%s debe ser un código postal válido",
		"required": "%s es obligatorio",
		"email":    "%s debe ser un correo electrónico válido",
		"min":      "%s es demasiado pequeño",
		"max":      "%s es demasiado grande",
	},
}

func message(locale, rule string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[rule]; ok {
			return msg
		}
	}
	if msg, ok := messages["en"][rule]; ok {
		return msg
	}
	return ""
}

// DefaultMessage renders the fallback failure message for a rule that has
// no registered template and no per-spec override.
func DefaultMessage(locale, rule, field string) string {
	if msg := message(locale, rule); msg != "" {
		return fmt.Sprintf(msg, field)
	}
	return fmt.Sprintf("field %s failed %s validation", field, rule)
}
