package models

// EstimateInput carries the parameters for a price estimate.
type EstimateInput struct {
	ServiceType string `json:"service_type"`
	TreeCount   int    `json:"tree_count"`
	HeightFt    int    `json:"height_ft"`
	Emergency   bool   `json:"emergency"`
	Zip         string `json:"zip"`
}

// DateRange is an inclusive calendar-date window, ISO dates.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SlotQuery carries the parameters for an availability search.
type SlotQuery struct {
	DateRange  DateRange `json:"preferred_date_range"`
	TimesOfDay []string  `json:"preferred_times_of_day"`
	CrewSize   int       `json:"crew_size"`
	MaxSlots   int       `json:"max_slots"`
}

// OpenSlot describes one free two-hour crew block.
type OpenSlot struct {
	SlotID string `json:"slot_id"`
	Date   string `json:"date"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// BookingConfirmation is returned once a slot has been reserved.
type BookingConfirmation struct {
	JobID string `json:"job_id"`
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}
