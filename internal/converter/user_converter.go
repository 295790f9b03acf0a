package converter

import (
	"novacare-booking/internal/delivery/dto"
	"novacare-booking/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Includes the linked doctor if it is loaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role.RoleName,
		Doctor:    DoctorToSummary(user.Doctor),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
