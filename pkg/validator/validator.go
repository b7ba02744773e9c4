package validator

import (
	"regexp"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// Custom tags understood by validators built with New or prepared with RegisterTags.
const (
	TagNotBlank = "notblank"
	TagEmail    = "booking_email"
	TagPhone    = "booking_phone"
)

// whitespace is the set browsers match with \s and strip with trim. RE2's \s
// is ASCII only.
const whitespace = `\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

var (
	emailPattern = regexp.MustCompile(`^[^@` + whitespace + `]+@[^@` + whitespace + `]+\.[^@` + whitespace + `]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9` + whitespace + `-]{7,15}$`)
	spacePattern = regexp.MustCompile(`^[` + whitespace + `]$`)
)

// Validator provides validation functionality
type Validator interface {
	// Check reports whether value satisfies every rule in tag.
	Check(value interface{}, tag string) bool
}

type validator struct {
	v *playground.Validate
}

// New returns a validator with the booking tags registered.
func New() Validator {
	v := playground.New()
	if err := RegisterTags(v); err != nil {
		// tags are static; a failure here is a programming error
		panic(err)
	}
	return &validator{v: v}
}

// RegisterTags adds the custom tags to an existing engine, such as gin's binding validator.
func RegisterTags(v *playground.Validate) error {
	tags := map[string]playground.Func{
		TagNotBlank: notBlank,
		TagEmail:    matches(emailPattern),
		TagPhone:    matches(phonePattern),
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) Check(value interface{}, tag string) bool {
	return v.v.Var(value, tag) == nil
}

func notBlank(fl playground.FieldLevel) bool {
	return strings.TrimFunc(fl.Field().String(), isSpace) != ""
}

func isSpace(r rune) bool {
	return spacePattern.MatchString(string(r))
}

func matches(re *regexp.Regexp) playground.Func {
	return func(fl playground.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
