// Package validate holds the pure field validators used by both the form
// workflow and the backend handlers. Validators are synchronous and never
// touch the network; optional fields pass on blank input, mandatory ones
// report "<Field> is required".
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Result struct {
	Valid   bool
	Message string
}

func ok() Result { return Result{Valid: true} }

func fail(message string) Result { return Result{Message: message} }

var (
	nameRe     = regexp.MustCompile(`^[A-Za-z\s'-]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	ifscRe     = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
	swiftRe    = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
	ibanRe     = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{1,30}$`)
	digitsRe   = regexp.MustCompile(`^[0-9]+$`)
	passportRe = regexp.MustCompile(`^[A-Za-z0-9]{6,9}$`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

// Digits strips every non-digit character.
func Digits(value string) string {
	return nonDigitRe.ReplaceAllString(value, "")
}

// Required rejects blank input for mandatory fields.
func Required(label, value string) Result {
	if strings.TrimSpace(value) == "" {
		return fail(label + " is required")
	}
	return ok()
}

// Name validates a person-name part: mandatory, at least two characters,
// letters/spaces/apostrophes/hyphens only.
func Name(label, value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fail(label + " is required")
	}
	if len(trimmed) < 2 {
		return fail(label + " must be at least 2 characters")
	}
	if !nameRe.MatchString(trimmed) {
		return fail(label + " may only contain letters, spaces, apostrophes and hyphens")
	}
	return ok()
}

// OptionalName is Name for non-mandatory parts (middle name).
func OptionalName(label, value string) Result {
	if strings.TrimSpace(value) == "" {
		return ok()
	}
	return Name(label, value)
}

func Email(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fail("Email is required")
	}
	if !emailRe.MatchString(trimmed) {
		return fail("Enter a valid email address")
	}
	return ok()
}

// Phone checks that the digit-only length of value equals the expected local
// digit count for the selected country.
func Phone(value, countryCode string) Result {
	if strings.TrimSpace(value) == "" {
		return fail("Phone number is required")
	}
	country, found := CountryByCode(countryCode)
	if !found {
		return fail("Select a country for the phone number")
	}
	digits := Digits(value)
	if len(digits) != country.PhoneDigits {
		return fail(fmt.Sprintf("Phone number must be %d digits for %s", country.PhoneDigits, country.Name))
	}
	return ok()
}

func IFSC(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ok()
	}
	if len(trimmed) != 11 || !ifscRe.MatchString(trimmed) {
		return fail("Enter a valid 11 character IFSC code")
	}
	return ok()
}

func SWIFT(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ok()
	}
	if !swiftRe.MatchString(trimmed) {
		return fail("Enter a valid 8 or 11 character SWIFT code")
	}
	return ok()
}

// IBAN checks the generic shape, then the exact length registered for the
// two-letter country prefix.
func IBAN(value string) Result {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return ok()
	}
	if !ibanRe.MatchString(trimmed) {
		return fail("Enter a valid IBAN")
	}
	prefix := trimmed[:2]
	expected, found := ibanLengths[prefix]
	if !found {
		return fail("IBAN country code " + prefix + " is not supported")
	}
	if len(trimmed) != expected {
		return fail(fmt.Sprintf("IBAN for %s must be %d characters", prefix, expected))
	}
	return ok()
}

func AccountNumber(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ok()
	}
	if !digitsRe.MatchString(trimmed) || len(trimmed) < 9 || len(trimmed) > 18 {
		return fail("Account number must be 9 to 18 digits")
	}
	return ok()
}

// CTC validates the annual cost-to-company figure as a non-negative decimal.
func CTC(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ok()
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return fail("CTC must be a number")
	}
	if amount.IsNegative() {
		return fail("CTC cannot be negative")
	}
	return ok()
}

func QID(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ok()
	}
	if len(trimmed) != 11 || !digitsRe.MatchString(trimmed) {
		return fail("QID must be exactly 11 digits")
	}
	return ok()
}

func PassportNumber(value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ok()
	}
	if !passportRe.MatchString(trimmed) {
		return fail("Passport number must be 6 to 9 letters or digits")
	}
	return ok()
}

// DateWithinYears requires the date, when present, to fall between today and
// today plus the given number of years.
func DateWithinYears(label, value string, years int) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ok()
	}
	parsed, err := ParseDate(trimmed)
	if err != nil || parsed.IsZero() {
		return fail(label + " must be a valid date in YYYY-MM-DD format")
	}
	today := truncateToDay(time.Now())
	limit := today.AddDate(years, 0, 0)
	day := truncateToDay(parsed)
	if day.Before(today) {
		return fail(label + " cannot be in the past")
	}
	if day.After(limit) {
		return fail(fmt.Sprintf("%s cannot be more than %d years from today", label, years))
	}
	return ok()
}

// PastOrPresentDate rejects dates after today (date of birth, joining date).
func PastOrPresentDate(label, value string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ok()
	}
	parsed, err := ParseDate(trimmed)
	if err != nil || parsed.IsZero() {
		return fail(label + " must be a valid date in YYYY-MM-DD format")
	}
	if truncateToDay(parsed).After(truncateToDay(time.Now())) {
		return fail(label + " cannot be in the future")
	}
	return ok()
}

// Enum accepts blank or any of the allowed values, case-insensitively.
func Enum(label, value string, allowed ...string) Result {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ok()
	}
	for _, candidate := range allowed {
		if strings.EqualFold(trimmed, candidate) {
			return ok()
		}
	}
	return fail(label + " must be one of: " + strings.Join(allowed, ", "))
}

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
