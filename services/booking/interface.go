package booking

import (
	"context"

	calendarRepo "dulai/database/repository/calendar"
	"dulai/models"
)

// Service exposes the booking operations the assistant can invoke.
type Service interface {
	Estimate(in models.EstimateInput) (int, error)
	FindOpenSlots(ctx context.Context, q models.SlotQuery) ([]models.OpenSlot, error)
	BookJob(ctx context.Context, slotID string, payload map[string]any) (*models.BookingConfirmation, error)
}

// DefaultBookingService implements Service against a SlotStore.
type DefaultBookingService struct {
	Calendar calendarRepo.SlotStore
}
