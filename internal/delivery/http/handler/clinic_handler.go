package handler

import (
	"net/http"

	"novacare-booking/config"
	"novacare-booking/internal/delivery/dto"
	"novacare-booking/pkg/response"
)

type ClinicHandler struct {
	info dto.ClinicResponse
}

// NewClinicHandler renders the clinic config once; it does not change at runtime
func NewClinicHandler(cfg config.ClinicConfig) *ClinicHandler {
	closed := make([]string, len(cfg.ClosedWeekdays))
	for i, day := range cfg.ClosedWeekdays {
		closed[i] = day.String()
	}

	return &ClinicHandler{
		info: dto.ClinicResponse{
			Name:           cfg.Name,
			Phone:          cfg.Phone,
			Email:          cfg.Email,
			Address:        cfg.Address,
			HeroText:       cfg.HeroText,
			Timezone:       cfg.Timezone,
			ClosedWeekdays: closed,
		},
	}
}

func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Clinic retrieved successfully", h.info)
}
