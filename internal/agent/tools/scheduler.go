package tools

import (
	"context"
	"time"

	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
)

// slotWindowDays is how many consecutive calendar days of availability the
// scheduler offers, starting tomorrow.
const slotWindowDays = 5

// ClockScheduler is the stand-in viewing scheduler: one fixed morning slot
// per day for the next slotWindowDays days. The clock is injectable so
// tests can pin the window.
type ClockScheduler struct {
	Now func() time.Time
}

func NewClockScheduler() *ClockScheduler {
	return &ClockScheduler{Now: time.Now}
}

func (s *ClockScheduler) AvailableSlots(ctx context.Context) ([]model.ViewingSlot, error) {
	base := s.Now().AddDate(0, 0, 1)

	slots := make([]model.ViewingSlot, 0, slotWindowDays)
	for i := 0; i < slotWindowDays; i++ {
		day := base.AddDate(0, 0, i)
		slots = append(slots, model.ViewingSlot{
			Date:      day.Format("2006-01-02"),
			Time:      "10:00 AM",
			Available: true,
		})
	}
	return slots, nil
}

var _ model.SlotProvider = (*ClockScheduler)(nil)
