package converter

import (
	"novacare-booking/internal/delivery/dto"
	"novacare-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// BookingToResponse converts a Booking entity to the staff-facing BookingResponse DTO
func BookingToResponse(booking *entity.Booking) *dto.BookingResponse {
	if booking == nil {
		return nil
	}

	response := &dto.BookingResponse{
		ID:                 booking.ID,
		BookingCode:        booking.BookingCode,
		DoctorID:           booking.DoctorID,
		Date:               booking.BookingDate.Format(DateLayout),
		Time:               booking.BookingTime.String(),
		ConsultationType:   string(booking.ConsultationType),
		Status:             string(booking.Status),
		PatientName:        booking.PatientName,
		PatientPhone:       booking.PatientPhone,
		PatientEmail:       booking.PatientEmail,
		Symptoms:           booking.Symptoms,
		Notes:              booking.Notes,
		CancellationReason: booking.CancellationReason,
		Fee:                feeOf(booking.Fee),
		Currency:           booking.Currency,
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
	}

	// Include doctor info if preloaded
	if booking.Doctor.ID != uuid.Nil {
		response.Doctor = DoctorToSummary(&booking.Doctor)
	}

	return response
}

// BookingsToResponses converts a slice of Booking entities to slice of BookingResponse DTOs
func BookingsToResponses(bookings []entity.Booking) []dto.BookingResponse {
	responses := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = *BookingToResponse(&bookings[i])
	}
	return responses
}

// BookingToCreatedResponse builds the patient-facing confirmation of a new booking
func BookingToCreatedResponse(booking *entity.Booking, doctor *entity.Doctor) *dto.BookingCreatedResponse {
	return &dto.BookingCreatedResponse{
		BookingID:        booking.ID,
		BookingCode:      booking.BookingCode,
		Status:           string(booking.Status),
		DoctorID:         booking.DoctorID,
		DoctorName:       doctor.FullName,
		Date:             booking.BookingDate.Format(DateLayout),
		Time:             booking.BookingTime.String(),
		ConsultationType: string(booking.ConsultationType),
		Fee:              feeOf(booking.Fee),
		Currency:         booking.Currency,
		CreatedAt:        booking.CreatedAt,
	}
}

// BookingsToStatusResponses hides patient details for the public phone lookup
func BookingsToStatusResponses(bookings []entity.Booking) []dto.BookingStatusResponse {
	responses := make([]dto.BookingStatusResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = dto.BookingStatusResponse{
			BookingCode:      booking.BookingCode,
			DoctorName:       booking.Doctor.FullName,
			Date:             booking.BookingDate.Format(DateLayout),
			Time:             booking.BookingTime.String(),
			ConsultationType: string(booking.ConsultationType),
			Status:           string(booking.Status),
		}
	}
	return responses
}

func feeOf(fee decimal.NullDecimal) *decimal.Decimal {
	if !fee.Valid {
		return nil
	}
	return &fee.Decimal
}
