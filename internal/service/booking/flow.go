package booking

import (
	"time"

	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/pkg/errors"
)

// SubmittedMessage is shown after a simulated submission.
const SubmittedMessage = "Appointment request sent. We will email confirmation shortly."

type Action string

const (
	ActionStart     Action = "start"
	ActionUpdate    Action = "update"
	ActionClinician Action = "clinician"
	ActionNext      Action = "next"
	ActionBack      Action = "back"
	ActionSubmit    Action = "submit"
	ActionCancel    Action = "cancel"
	ActionConfirm   Action = "confirm"
	ActionCart      Action = "cart"
)

var (
	ErrStepBlocked      = errors.Unprocessable("complete the highlighted fields to continue")
	ErrNoNextStep       = errors.Conflict("already on the review step")
	ErrSubmitNotAllowed = errors.Conflict("appointments can only be submitted from the review step")
	ErrConfirmPending   = errors.Conflict("confirm or cancel the pending request first")
	ErrNothingToConfirm = errors.Conflict("no appointment request is waiting for confirmation")
	ErrUnknownClinician = errors.BadRequest("unknown clinician", nil)
)

// NewSession starts a visitor at step 1 with the default form and no errors
// shown until the first edit or transition.
func NewSession(id, defaultDoctorID string, now time.Time) *model.Session {
	return &model.Session{
		ID:        id,
		Step:      model.StepDetails,
		Form:      model.DefaultForm(defaultDoctorID),
		Errors:    model.ValidationErrors{},
		UpdatedAt: now,
	}
}

func revalidate(s *model.Session) {
	s.Errors = Validate(s.Form, s.Step)
}

// ApplyPatch copies the non-nil fields of p into the form and clears the
// status banner. A patch naming a clinician for which known returns false is
// rejected as a whole.
func ApplyPatch(s *model.Session, p model.FormPatch, known func(id string) bool) error {
	if p.DoctorID != nil && !known(*p.DoctorID) {
		return ErrUnknownClinician
	}

	f := &s.Form
	setString(&f.FullName, p.FullName)
	setString(&f.Email, p.Email)
	setString(&f.Phone, p.Phone)
	setString(&f.Condition, p.Condition)
	setString(&f.Date, p.Date)
	setString(&f.Time, p.Time)
	setString(&f.DoctorID, p.DoctorID)
	if p.Consent != nil {
		f.Consent = *p.Consent
	}

	s.Status = nil
	revalidate(s)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Next advances one step when the current step validates.
func Next(s *model.Session) error {
	if s.ConfirmPending {
		return ErrConfirmPending
	}
	if s.Step >= model.StepReview {
		return ErrNoNextStep
	}

	revalidate(s)
	if !s.Errors.Valid() {
		return ErrStepBlocked
	}

	s.Step++
	revalidate(s)
	return nil
}

// Back moves one step back. It never validates; on step 1 it is a no-op.
func Back(s *model.Session) error {
	if s.ConfirmPending {
		return ErrConfirmPending
	}
	if s.Step > model.StepDetails {
		s.Step--
	}
	revalidate(s)
	return nil
}

// RequestSubmit opens the confirmation prompt.
func RequestSubmit(s *model.Session) error {
	if s.ConfirmPending {
		return nil
	}
	if s.Step != model.StepReview {
		return ErrSubmitNotAllowed
	}

	revalidate(s)
	if !s.Errors.Valid() {
		return ErrStepBlocked
	}

	s.ConfirmPending = true
	return nil
}

// CancelSubmit closes the confirmation prompt.
func CancelSubmit(s *model.Session) error {
	s.ConfirmPending = false
	return nil
}

// BeginConfirm checks that a confirmed submission may proceed.
func BeginConfirm(s *model.Session) error {
	if !s.ConfirmPending {
		return ErrNothingToConfirm
	}

	revalidate(s)
	if !Valid(s.Form, model.StepReview) {
		s.ConfirmPending = false
		return ErrStepBlocked
	}
	return nil
}

// CompleteSubmission resets the flow after the simulated request returns.
func CompleteSubmission(s *model.Session, defaultDoctorID string) {
	s.ConfirmPending = false
	s.Step = model.StepDetails
	s.Form = model.DefaultForm(defaultDoctorID)
	s.Errors = model.ValidationErrors{}
	s.Status = &model.StatusMessage{Type: model.StatusSuccess, Message: SubmittedMessage}
}
