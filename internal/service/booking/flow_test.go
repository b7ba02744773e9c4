package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/greenwell/internal/model"
)

func knownIDs(ids ...string) func(string) bool {
	return func(id string) bool {
		for _, known := range ids {
			if known == id {
				return true
			}
		}
		return false
	}
}

func sessionAt(step model.Step, form model.BookingForm) *model.Session {
	s := NewSession("s1", "d1", time.Unix(0, 0))
	s.Step = step
	s.Form = form
	return s
}

func strPtr(s string) *string { return &s }

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession("abc", "d1", time.Unix(10, 0))

	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, model.StepDetails, s.Step)
	assert.Equal(t, model.DefaultForm("d1"), s.Form)
	assert.Empty(t, s.Errors)
	assert.False(t, s.ConfirmPending)
	assert.Nil(t, s.Status)
}

func TestNextBlockedKeepsStep(t *testing.T) {
	f := validStep1()
	f.Email = "bad-email"
	s := sessionAt(model.StepDetails, f)

	err := Next(s)
	assert.ErrorIs(t, err, ErrStepBlocked)
	assert.Equal(t, model.StepDetails, s.Step)
	assert.Equal(t, []string{model.FieldEmail}, s.Errors.Fields())
}

func TestNextAdvancesAndRevalidates(t *testing.T) {
	s := sessionAt(model.StepDetails, validStep1())

	require.NoError(t, Next(s))
	assert.Equal(t, model.StepAppointment, s.Step)
	// step 2 rules now apply to the untouched date/time/consent
	assert.Equal(t, []string{model.FieldConsent, model.FieldDate, model.FieldTime}, s.Errors.Fields())

	err := Next(s)
	assert.ErrorIs(t, err, ErrStepBlocked)
	assert.Equal(t, model.StepAppointment, s.Step)
}

func TestNextFromReviewIsInvalid(t *testing.T) {
	s := sessionAt(model.StepReview, validStep2())
	assert.ErrorIs(t, Next(s), ErrNoNextStep)
	assert.Equal(t, model.StepReview, s.Step)
}

func TestBackAlwaysAllowed(t *testing.T) {
	s := sessionAt(model.StepReview, model.DefaultForm("d1"))

	require.NoError(t, Back(s))
	assert.Equal(t, model.StepAppointment, s.Step)
	require.NoError(t, Back(s))
	assert.Equal(t, model.StepDetails, s.Step)
	require.NoError(t, Back(s))
	assert.Equal(t, model.StepDetails, s.Step)
	assert.Len(t, s.Errors, 4)
}

func TestApplyPatch(t *testing.T) {
	s := sessionAt(model.StepDetails, model.DefaultForm("d1"))
	s.Status = &model.StatusMessage{Type: model.StatusSuccess, Message: SubmittedMessage}

	err := ApplyPatch(s, model.FormPatch{FullName: strPtr("Jane Doe"), DoctorID: strPtr("d2")}, knownIDs("d1", "d2"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", s.Form.FullName)
	assert.Equal(t, "d2", s.Form.DoctorID)
	assert.Nil(t, s.Status)
	assert.False(t, s.Errors.Has(model.FieldFullName))
	assert.True(t, s.Errors.Has(model.FieldEmail))
}

func TestApplyPatchRejectsUnknownClinician(t *testing.T) {
	s := sessionAt(model.StepDetails, validStep1())
	before := s.Form

	for _, id := range []string{"d9", ""} {
		err := ApplyPatch(s, model.FormPatch{FullName: strPtr("Other"), DoctorID: strPtr(id)}, knownIDs("d1"))
		assert.ErrorIs(t, err, ErrUnknownClinician)
		assert.Equal(t, before, s.Form)
	}
}

func TestSubmitOnlyFromReview(t *testing.T) {
	s := sessionAt(model.StepAppointment, validStep2())
	assert.ErrorIs(t, RequestSubmit(s), ErrSubmitNotAllowed)
	assert.False(t, s.ConfirmPending)
}

func TestSubmitWithoutConsentIsBlocked(t *testing.T) {
	f := validStep2()
	f.Consent = false
	s := sessionAt(model.StepReview, f)

	assert.ErrorIs(t, RequestSubmit(s), ErrStepBlocked)
	assert.False(t, s.ConfirmPending)
	assert.True(t, s.Errors.Has(model.FieldConsent))
}

func TestSubmitCancelConfirm(t *testing.T) {
	s := sessionAt(model.StepReview, validStep2())

	assert.ErrorIs(t, BeginConfirm(s), ErrNothingToConfirm)

	require.NoError(t, RequestSubmit(s))
	assert.True(t, s.ConfirmPending)
	require.NoError(t, RequestSubmit(s))

	assert.ErrorIs(t, Next(s), ErrConfirmPending)
	assert.ErrorIs(t, Back(s), ErrConfirmPending)

	require.NoError(t, CancelSubmit(s))
	assert.False(t, s.ConfirmPending)
	assert.Equal(t, model.StepReview, s.Step)

	require.NoError(t, RequestSubmit(s))
	require.NoError(t, BeginConfirm(s))
	CompleteSubmission(s, "d1")

	assert.Equal(t, model.StepDetails, s.Step)
	assert.Equal(t, model.DefaultForm("d1"), s.Form)
	assert.Empty(t, s.Errors)
	assert.False(t, s.ConfirmPending)
	require.NotNil(t, s.Status)
	assert.Equal(t, model.StatusSuccess, s.Status.Type)
	assert.Equal(t, SubmittedMessage, s.Status.Message)
}

func TestBeginConfirmRevalidates(t *testing.T) {
	s := sessionAt(model.StepReview, validStep2())
	require.NoError(t, RequestSubmit(s))

	s.Form.Consent = false
	assert.ErrorIs(t, BeginConfirm(s), ErrStepBlocked)
	assert.False(t, s.ConfirmPending)
	assert.True(t, s.Errors.Has(model.FieldConsent))
}
