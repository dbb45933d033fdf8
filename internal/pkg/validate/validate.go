package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. Custom tags are registered in
// init() before the first call to Struct.
var v = validator.New()

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

func init() {
	must(v.RegisterValidation("date", isDate))
	must(v.RegisterValidation("clock", isClock))
	must(v.RegisterValidation("timezone", isTimezone))
	must(v.RegisterValidation("numeric_code", isNumericCode))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// date: YYYY-MM-DD calendar date.
func isDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

// clock: HH:MM or HH:MM:SS, 24h.
func isClock(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if _, err := time.Parse("15:04", s); err == nil {
		return true
	}
	_, err := time.Parse(time.TimeOnly, s)
	return err == nil
}

// timezone: IANA zone name such as Asia/Kolkata.
func isTimezone(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || strings.EqualFold(s, "local") {
		return false
	}
	_, err := time.LoadLocation(s)
	return err == nil
}

// numeric_code: a non-empty run of ASCII digits, at most 10 long.
func isNumericCode(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) <= 10 && digitsOnly.MatchString(s)
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
