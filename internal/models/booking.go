package models

// Slot is one candidate start time of a day, labelled with its wall-clock
// reading in the salon timezone.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DayAvailability is the full availability answer for one date.
type DayAvailability struct {
	Date     string `json:"date"`
	Duration int    `json:"duration"`
	Slots    []Slot `json:"slots"`
}

// BookingConfirmation is returned once the external calendar accepted the
// event.
type BookingConfirmation struct {
	EventID string `json:"event_id"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}
