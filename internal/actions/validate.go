package actions

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/bedolaga/bedolaga-console/internal/i18n"
)

// ValidationError reports a rejected field with a localized message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseFields validates the raw form against the field specs and returns the
// typed values. The first failing field stops the parse.
func ParseFields(def Definition, form url.Values, locale string) (Values, error) {
	values := make(Values, len(def.Fields))
	for _, field := range def.Fields {
		raw := strings.TrimSpace(form.Get(field.Name))
		label := i18n.T(locale, field.LabelKey)

		switch field.Type {
		case FieldInteger:
			if raw == "" {
				if !field.Required {
					continue
				}
				return nil, &ValidationError{Field: field.Name, Message: i18n.T(locale, "validate.required", label)}
			}
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, &ValidationError{Field: field.Name, Message: i18n.T(locale, "validate.integer", label)}
			}
			if n < field.Min {
				return nil, &ValidationError{Field: field.Name, Message: i18n.T(locale, "validate.min", label, field.Min)}
			}
			values[field.Name] = n

		case FieldAmount:
			if raw == "" {
				return nil, &ValidationError{Field: field.Name, Message: i18n.T(locale, "validate.required", label)}
			}
			kopeks, ok := parseKopeks(raw)
			if !ok {
				return nil, &ValidationError{Field: field.Name, Message: i18n.T(locale, "validate.amount_format", label)}
			}
			if kopeks == 0 {
				return nil, &ValidationError{Field: field.Name, Message: i18n.T(locale, "validate.amount_zero")}
			}
			values[field.Name] = kopeks

		case FieldText:
			if raw == "" {
				raw = field.Default
			}
			values[field.Name] = raw

		case FieldBoolean:
			if raw == "" {
				values[field.Name] = field.Default == "true"
			} else {
				values[field.Name] = isChecked(raw)
			}

		case FieldChoice:
			if raw == "" {
				raw = field.Default
			}
			raw = strings.ToLower(raw)
			if !choiceAllowed(field.Options, raw) {
				return nil, &ValidationError{Field: field.Name, Message: i18n.T(locale, "validate.choice", label)}
			}
			values[field.Name] = raw
		}
	}
	return values, nil
}

func choiceAllowed(options []ChoiceOption, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// isChecked interprets checkbox submissions.
func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// parseKopeks converts a decimal ruble string to kopeks, rounding half up to
// two places. Comma is accepted as the decimal separator.
func parseKopeks(raw string) (int64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	negative := false
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, false
	}
	if intPart == "" {
		intPart = "0"
	}
	if !digitsOnly(intPart) || (fracPart != "" && !digitsOnly(fracPart)) {
		return 0, false
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}
	for len(fracPart) < 3 {
		fracPart += "0"
	}
	cents := int64(fracPart[0]-'0')*10 + int64(fracPart[1]-'0')
	if fracPart[2] >= '5' {
		cents++
	}
	if whole > (math.MaxInt64-cents)/100 {
		return 0, false
	}
	kopeks := whole*100 + cents
	if negative {
		kopeks = -kopeks
	}
	return kopeks, true
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// formatKopeks renders kopeks as a rubles string with two decimals.
func formatKopeks(kopeks int64) string {
	sign := ""
	if kopeks < 0 {
		sign = "-"
		kopeks = -kopeks
	}
	return fmt.Sprintf("%s%d.%02d", sign, kopeks/100, kopeks%100)
}

// formatSignedKopeks is formatKopeks with an explicit plus for positive values.
func formatSignedKopeks(kopeks int64) string {
	if kopeks >= 0 {
		return "+" + formatKopeks(kopeks)
	}
	return formatKopeks(kopeks)
}
