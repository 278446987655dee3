package booking

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dulai/models"

	"github.com/google/uuid"
)

const jobIDPrefix = "DT-"

// BookJob reserves the slot and mints a job id. The reservation is
// unconditional: whether the slot was previously reported free is the
// caller's responsibility, and a double booking overwrites silently.
func (s *DefaultBookingService) BookJob(ctx context.Context, slotID string, payload map[string]any) (*models.BookingConfirmation, error) {
	dateStr, hourStr, ok := strings.Cut(slotID, "_")
	if !ok {
		return nil, fmt.Errorf("malformed slot_id %q", slotID)
	}
	if _, err := time.Parse(dateLayout, dateStr); err != nil {
		return nil, fmt.Errorf("malformed slot_id %q: %w", slotID, err)
	}
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return nil, fmt.Errorf("malformed slot_id %q: %w", slotID, err)
	}

	if _, err := s.Calendar.Reserve(ctx, dateStr, hour, payload); err != nil {
		return nil, fmt.Errorf("reserve slot %s: %w", slotID, err)
	}

	return &models.BookingConfirmation{
		JobID: jobIDPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
		Date:  dateStr,
		Start: fmt.Sprintf("%02d:00", hour),
		End:   fmt.Sprintf("%02d:00", hour+blockHours),
	}, nil
}
