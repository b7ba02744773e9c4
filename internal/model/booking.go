package model

import "sort"

// Step is one of the three sequential stages of the booking flow.
type Step int

const (
	StepDetails     Step = 1
	StepAppointment Step = 2
	StepReview      Step = 3
)

// Steps lists the stages in order.
var Steps = []Step{StepDetails, StepAppointment, StepReview}

func (s Step) Valid() bool {
	return s >= StepDetails && s <= StepReview
}

func (s Step) Label() string {
	switch s {
	case StepDetails:
		return "Your details"
	case StepAppointment:
		return "Appointment"
	case StepReview:
		return "Review"
	default:
		return ""
	}
}

// Booking form field names. They double as keys of ValidationErrors.
const (
	FieldFullName  = "fullName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldCondition = "condition"
	FieldDate      = "date"
	FieldTime      = "time"
	FieldDoctorID  = "doctorId"
	FieldConsent   = "consent"
)

// BookingForm is the record edited by a visitor during one booking attempt.
type BookingForm struct {
	FullName  string `json:"fullName" form:"fullName"`
	Email     string `json:"email" form:"email"`
	Phone     string `json:"phone" form:"phone"`
	Condition string `json:"condition" form:"condition"`
	Date      string `json:"date" form:"date"`
	Time      string `json:"time" form:"time"`
	DoctorID  string `json:"doctorId" form:"doctorId"`
	Consent   bool   `json:"consent" form:"consent"`
}

// DefaultForm is the empty form with the clinician preselected.
func DefaultForm(doctorID string) BookingForm {
	return BookingForm{DoctorID: doctorID}
}

// FormPatch carries a partial update; nil fields are left untouched.
type FormPatch struct {
	FullName  *string `json:"fullName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Condition *string `json:"condition"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	DoctorID  *string `json:"doctorId"`
	Consent   *bool   `json:"consent"`
}

// ValidationErrors maps a field name to the message shown next to it.
// A missing key means the field passes.
type ValidationErrors map[string]string

func (e ValidationErrors) Valid() bool {
	return len(e) == 0
}

// Has reports whether field failed validation.
func (e ValidationErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the failing field names in sorted order.
func (e ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
