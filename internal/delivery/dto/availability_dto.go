package dto

import "github.com/google/uuid"

type AvailableSlotsQuery struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type AvailableSlotsResponse struct {
	DoctorID        uuid.UUID      `json:"doctor_id"`
	Date            string         `json:"date"`
	DoctorAvailable bool           `json:"doctor_available"`
	Slots           []SlotResponse `json:"slots"`
}
