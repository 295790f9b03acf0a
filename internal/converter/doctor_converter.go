package converter

import (
	"time"

	"novacare-booking/internal/delivery/dto"
	"novacare-booking/internal/domain/entity"
)

// DoctorToSummary converts a Doctor entity to the short form embedded in bookings
func DoctorToSummary(doctor *entity.Doctor) *dto.DoctorSummary {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorSummary{
		ID:             doctor.ID,
		FullName:       doctor.FullName,
		Specialization: doctor.Specialization,
	}
}

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:                  doctor.ID,
		UserID:              doctor.UserID,
		FullName:            doctor.FullName,
		Specialization:      doctor.Specialization,
		Biography:           doctor.Biography,
		SlotDurationMinutes: doctor.SlotDurationMinutes,
		IsAvailable:         doctor.IsAvailable,
		Fees:                FeesToResponses(doctor.Fees),
		CreatedAt:           doctor.CreatedAt,
		UpdatedAt:           doctor.UpdatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

func DoctorToDetailResponse(doctor *entity.Doctor, hours []entity.WorkingHours) *dto.DoctorDetailResponse {
	return &dto.DoctorDetailResponse{
		DoctorResponse: *DoctorToResponse(doctor),
		WorkingHours:   WorkingHoursToResponses(hours),
	}
}

func WorkingHoursToResponse(hours *entity.WorkingHours) *dto.WorkingHoursResponse {
	return &dto.WorkingHoursResponse{
		ID:        hours.ID,
		DoctorID:  hours.DoctorID,
		Weekday:   hours.Weekday,
		DayName:   time.Weekday(hours.Weekday).String(),
		StartTime: hours.StartTime.String(),
		EndTime:   hours.EndTime.String(),
		IsActive:  hours.IsActive,
	}
}

func WorkingHoursToResponses(hours []entity.WorkingHours) []dto.WorkingHoursResponse {
	responses := make([]dto.WorkingHoursResponse, len(hours))
	for i := range hours {
		responses[i] = *WorkingHoursToResponse(&hours[i])
	}
	return responses
}

func FeesToResponses(fees []entity.ConsultationFee) []dto.FeeResponse {
	responses := make([]dto.FeeResponse, len(fees))
	for i, fee := range fees {
		responses[i] = dto.FeeResponse{
			ConsultationType: string(fee.ConsultationType),
			Fee:              fee.Fee,
			Currency:         fee.Currency,
		}
	}
	return responses
}
