package booking

import (
	"context"
	"testing"

	calendarRepo "dulai/database/repository/calendar"
	"dulai/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *DefaultBookingService {
	return &DefaultBookingService{Calendar: calendarRepo.NewMemorySlotStore()}
}

func query(start, end string, parts ...string) models.SlotQuery {
	return models.SlotQuery{
		DateRange:  models.DateRange{StartDate: start, EndDate: end},
		TimesOfDay: parts,
	}
}

func TestFindOpenSlotsRespectsCap(t *testing.T) {
	svc := newTestService()

	// 2024-06-10 is a Monday; a full week of morning+afternoon blocks offers
	// far more than the default cap.
	slots, err := svc.FindOpenSlots(context.Background(), query("2024-06-10", "2024-06-15", "morning", "afternoon"))
	require.NoError(t, err)
	assert.Len(t, slots, 5)

	q := query("2024-06-10", "2024-06-15", "morning", "afternoon")
	q.MaxSlots = 3
	slots, err = svc.FindOpenSlots(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, slots, 3)
}

func TestFindOpenSlotsSkipsSunday(t *testing.T) {
	svc := newTestService()

	// 2024-06-16 is a Sunday.
	slots, err := svc.FindOpenSlots(context.Background(), query("2024-06-16", "2024-06-16", "morning", "midday", "afternoon"))
	require.NoError(t, err)
	assert.Empty(t, slots)

	// Saturday before and Monday after are both working days.
	slots, err = svc.FindOpenSlots(context.Background(), query("2024-06-15", "2024-06-17", "midday"))
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "2024-06-15", slots[0].Date)
	assert.Equal(t, "2024-06-17", slots[1].Date)
}

func TestFindOpenSlotsExcludesReserved(t *testing.T) {
	svc := newTestService()

	_, err := svc.Calendar.Reserve(context.Background(), "2024-06-10", 7, map[string]any{"name": "Ann"})
	require.NoError(t, err)

	slots, err := svc.FindOpenSlots(context.Background(), query("2024-06-10", "2024-06-10", "morning"))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "2024-06-10_09", slots[0].SlotID)
}

func TestFindOpenSlotsOrderAndShape(t *testing.T) {
	svc := newTestService()

	slots, err := svc.FindOpenSlots(context.Background(), query("2024-06-10", "2024-06-11", "afternoon", "morning"))
	require.NoError(t, err)
	require.Len(t, slots, 5)

	// Day-then-hour order within a day follows the requested day parts.
	assert.Equal(t, models.OpenSlot{SlotID: "2024-06-10_13", Date: "2024-06-10", Start: "13:00", End: "15:00"}, slots[0])
	assert.Equal(t, models.OpenSlot{SlotID: "2024-06-10_15", Date: "2024-06-10", Start: "15:00", End: "17:00"}, slots[1])
	assert.Equal(t, models.OpenSlot{SlotID: "2024-06-10_07", Date: "2024-06-10", Start: "07:00", End: "09:00"}, slots[2])
	assert.Equal(t, "2024-06-11", slots[4].Date)
}

func TestFindOpenSlotsEmptyAndInvalidInput(t *testing.T) {
	svc := newTestService()

	// Inverted range yields no slots, not an error.
	slots, err := svc.FindOpenSlots(context.Background(), query("2024-06-15", "2024-06-10", "morning"))
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = svc.FindOpenSlots(context.Background(), query("2024-06-10", "2024-06-11", "dawn"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown time of day")

	_, err = svc.FindOpenSlots(context.Background(), query("June 10", "2024-06-11", "morning"))
	require.Error(t, err)
}

func TestBookJob(t *testing.T) {
	svc := newTestService()

	conf, err := svc.BookJob(context.Background(), "2024-06-10_09", map[string]any{"name": "Ann"})
	require.NoError(t, err)

	assert.Regexp(t, `^DT-[0-9A-F]{8}$`, conf.JobID)
	assert.Equal(t, "2024-06-10", conf.Date)
	assert.Equal(t, "09:00", conf.Start)
	assert.Equal(t, "11:00", conf.End)

	free, err := svc.Calendar.IsFree(context.Background(), "2024-06-10", 9)
	require.NoError(t, err)
	assert.False(t, free)
}

func TestBookJobMalformedSlotID(t *testing.T) {
	svc := newTestService()

	for _, id := range []string{"nonsense", "2024-06-10", "June 10_09", "2024-06-10_nine"} {
		_, err := svc.BookJob(context.Background(), id, nil)
		assert.Error(t, err, "slot id %q", id)
	}
}
