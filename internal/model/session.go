package model

import "time"

type StatusType string

const StatusSuccess StatusType = "success"

// StatusMessage is the banner shown above the booking form.
type StatusMessage struct {
	Type    StatusType `json:"type"`
	Message string     `json:"message"`
}

// Session is the per-visitor UI state of the site.
type Session struct {
	ID             string           `json:"id"`
	Step           Step             `json:"step"`
	Form           BookingForm      `json:"form"`
	Errors         ValidationErrors `json:"errors"`
	ConfirmPending bool             `json:"confirmPending"`
	Status         *StatusMessage   `json:"status,omitempty"`
	CartCount      int              `json:"cartCount"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Clone returns a deep copy so stores never share maps with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Errors != nil {
		c.Errors = make(ValidationErrors, len(s.Errors))
		for k, v := range s.Errors {
			c.Errors[k] = v
		}
	}
	if s.Status != nil {
		st := *s.Status
		c.Status = &st
	}
	return &c
}
