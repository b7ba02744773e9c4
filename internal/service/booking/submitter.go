package booking

import (
	"context"
	"time"

	"github.com/jwalitptl/greenwell/internal/model"
)

// DefaultSubmitDelay matches the pause shown while a request is "sent".
const DefaultSubmitDelay = 900 * time.Millisecond

// Submitter hands a confirmed booking request onwards.
type Submitter interface {
	Submit(ctx context.Context, form model.BookingForm)
}

// SimulatedSubmitter waits for Delay and always succeeds. The wait is not
// cut short when the request goes away: the reset that follows always runs.
type SimulatedSubmitter struct {
	Delay time.Duration
}

func (s SimulatedSubmitter) Submit(_ context.Context, _ model.BookingForm) {
	if s.Delay <= 0 {
		return
	}
	time.Sleep(s.Delay)
}
