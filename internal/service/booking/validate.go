package booking

import (
	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/pkg/validator"
)

// Messages shown next to a failing field.
const (
	MsgFullName  = "Enter your full legal name (e.g., Jane A. Doe)."
	MsgEmail     = "Enter a valid email (example@domain.com)."
	MsgPhone     = "Enter a valid phone number (e.g., +1 555 123 4567)."
	MsgCondition = "Describe your symptoms, diagnosis, or treatment goals."
	MsgDate      = "Select a preferred date."
	MsgTime      = "Choose a time slot."
	MsgDoctorID  = "Pick a clinician."
	MsgConsent   = "You must consent to telehealth treatment to proceed."
)

type rule struct {
	field   string
	from    model.Step
	tag     string
	message string
	value   func(model.BookingForm) interface{}
}

// Rules apply to every step at or after from.
var rules = []rule{
	{model.FieldFullName, model.StepDetails, validator.TagNotBlank, MsgFullName, func(f model.BookingForm) interface{} { return f.FullName }},
	{model.FieldEmail, model.StepDetails, validator.TagEmail, MsgEmail, func(f model.BookingForm) interface{} { return f.Email }},
	{model.FieldPhone, model.StepDetails, validator.TagPhone, MsgPhone, func(f model.BookingForm) interface{} { return f.Phone }},
	{model.FieldCondition, model.StepDetails, validator.TagNotBlank, MsgCondition, func(f model.BookingForm) interface{} { return f.Condition }},
	{model.FieldDate, model.StepAppointment, "required", MsgDate, func(f model.BookingForm) interface{} { return f.Date }},
	{model.FieldTime, model.StepAppointment, "required", MsgTime, func(f model.BookingForm) interface{} { return f.Time }},
	{model.FieldDoctorID, model.StepAppointment, "required", MsgDoctorID, func(f model.BookingForm) interface{} { return f.DoctorID }},
	{model.FieldConsent, model.StepAppointment, "eq=true", MsgConsent, func(f model.BookingForm) interface{} { return f.Consent }},
}

var defaultValidator = validator.New()

// Validate returns the error mapping for every field in scope at step.
// It is pure: the same form and step always yield the same mapping.
func Validate(form model.BookingForm, step model.Step) model.ValidationErrors {
	errs := model.ValidationErrors{}
	for _, r := range rules {
		if step < r.from {
			continue
		}
		if !defaultValidator.Check(r.value(form), r.tag) {
			errs[r.field] = r.message
		}
	}
	return errs
}

// Valid reports whether form passes every rule in scope at step.
func Valid(form model.BookingForm, step model.Step) bool {
	return Validate(form, step).Valid()
}
