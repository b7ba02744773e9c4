package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/greenwell/internal/model"
)

func validStep1() model.BookingForm {
	return model.BookingForm{
		FullName:  "Jane Doe",
		Email:     "jane@x.com",
		Phone:     "+1 555 123 4567",
		Condition: "Headaches",
		DoctorID:  "d1",
	}
}

func validStep2() model.BookingForm {
	f := validStep1()
	f.Date = "2025-11-12"
	f.Time = "10:30"
	f.Consent = true
	return f
}

func TestValidateStep1Example(t *testing.T) {
	assert.Empty(t, Validate(validStep1(), model.StepDetails))
}

func TestValidateBadEmailOnlyFlagsEmail(t *testing.T) {
	f := validStep1()
	f.Email = "bad-email"

	errs := Validate(f, model.StepDetails)
	assert.Equal(t, model.ValidationErrors{model.FieldEmail: MsgEmail}, errs)
}

func TestValidateUnicodeWhitespace(t *testing.T) {
	f := validStep1()
	f.Email = "ja\u00a0ne@x.com"
	assert.Equal(t, model.ValidationErrors{model.FieldEmail: MsgEmail}, Validate(f, model.StepDetails))

	for _, phone := range []string{"+1\v555\v123\v4567", "+1\u00a0555\u00a0123"} {
		f = validStep1()
		f.Phone = phone
		assert.Empty(t, Validate(f, model.StepDetails), "phone %q", phone)
	}

	f = validStep1()
	f.FullName = "\u00a0\u2003\ufeff"
	assert.Equal(t, model.ValidationErrors{model.FieldFullName: MsgFullName}, Validate(f, model.StepDetails))
}

func TestValidateEmptyFormStep1(t *testing.T) {
	errs := Validate(model.DefaultForm("d1"), model.StepDetails)

	assert.Equal(t, []string{model.FieldCondition, model.FieldEmail, model.FieldFullName, model.FieldPhone}, errs.Fields())
	assert.Equal(t, MsgFullName, errs[model.FieldFullName])
	assert.Equal(t, MsgPhone, errs[model.FieldPhone])
	assert.Equal(t, MsgCondition, errs[model.FieldCondition])
}

func TestValidateWhitespaceIsBlank(t *testing.T) {
	f := validStep1()
	f.FullName = "   "
	f.Condition = "\t\n"

	errs := Validate(f, model.StepDetails)
	assert.Equal(t, []string{model.FieldCondition, model.FieldFullName}, errs.Fields())
}

func TestValidateStep2Rules(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*model.BookingForm)
		field string
		msg   string
	}{
		{"missing date", func(f *model.BookingForm) { f.Date = "" }, model.FieldDate, MsgDate},
		{"missing time", func(f *model.BookingForm) { f.Time = "" }, model.FieldTime, MsgTime},
		{"missing clinician", func(f *model.BookingForm) { f.DoctorID = "" }, model.FieldDoctorID, MsgDoctorID},
		{"no consent", func(f *model.BookingForm) { f.Consent = false }, model.FieldConsent, MsgConsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validStep2()
			tt.edit(&f)

			errs := Validate(f, model.StepAppointment)
			assert.Equal(t, model.ValidationErrors{tt.field: tt.msg}, errs)

			// step 1 ignores step 2 fields
			assert.Empty(t, Validate(f, model.StepDetails))
		})
	}
}

func TestValidateStepsAreCumulative(t *testing.T) {
	f := validStep2()
	f.Phone = "12"

	assert.True(t, Validate(f, model.StepDetails).Has(model.FieldPhone))
	assert.True(t, Validate(f, model.StepAppointment).Has(model.FieldPhone))
	assert.True(t, Validate(f, model.StepReview).Has(model.FieldPhone))
}

func TestValidateReviewAddsNothing(t *testing.T) {
	f := validStep2()
	assert.Empty(t, Validate(f, model.StepAppointment))
	assert.Empty(t, Validate(f, model.StepReview))

	f.Consent = false
	assert.Equal(t, Validate(f, model.StepAppointment), Validate(f, model.StepReview))
}

func TestValidateIsDeterministic(t *testing.T) {
	f := model.BookingForm{Email: "x@", Phone: "abc"}
	first := Validate(f, model.StepReview)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Validate(f, model.StepReview))
	}
	assert.Len(t, first, 8)
}
