package booking

import (
	"context"
	"fmt"
	"time"

	calendarRepo "dulai/database/repository/calendar"
	"dulai/models"
)

const (
	dateLayout      = "2006-01-02"
	blockHours      = 2
	defaultMaxSlots = 5
)

// dayPartHours expands a time-of-day token into block start hours.
var dayPartHours = map[string][]int{
	"morning":   {7, 9},
	"midday":    {11},
	"afternoon": {13, 15},
}

// FindOpenSlots walks the requested date range day by day, skipping Sundays,
// and collects free two-hour blocks matching the requested times of day, in
// day-then-hour order, up to the slot cap.
func (s *DefaultBookingService) FindOpenSlots(ctx context.Context, q models.SlotQuery) ([]models.OpenSlot, error) {
	start, err := time.Parse(dateLayout, q.DateRange.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date %q: %w", q.DateRange.StartDate, err)
	}
	end, err := time.Parse(dateLayout, q.DateRange.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date %q: %w", q.DateRange.EndDate, err)
	}

	var hours []int
	for _, part := range q.TimesOfDay {
		expanded, ok := dayPartHours[part]
		if !ok {
			return nil, fmt.Errorf("unknown time of day %q", part)
		}
		hours = append(hours, expanded...)
	}

	maxSlots := q.MaxSlots
	if maxSlots <= 0 {
		maxSlots = defaultMaxSlots
	}

	open := []models.OpenSlot{}
	for cur := start; !cur.After(end) && len(open) < maxSlots; cur = cur.AddDate(0, 0, 1) {
		if cur.Weekday() == time.Sunday {
			continue
		}
		date := cur.Format(dateLayout)
		for _, h := range hours {
			free, err := s.Calendar.IsFree(ctx, date, h)
			if err != nil {
				return nil, fmt.Errorf("check slot %s: %w", calendarRepo.SlotKey(date, h), err)
			}
			if !free {
				continue
			}
			open = append(open, models.OpenSlot{
				SlotID: calendarRepo.SlotKey(date, h),
				Date:   date,
				Start:  fmt.Sprintf("%02d:00", h),
				End:    fmt.Sprintf("%02d:00", h+blockHours),
			})
			if len(open) == maxSlots {
				break
			}
		}
	}
	return open, nil
}
