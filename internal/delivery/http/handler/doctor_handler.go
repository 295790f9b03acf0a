package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"novacare-booking/internal/delivery/dto"
	"novacare-booking/internal/usecase"
	"novacare-booking/pkg/response"
	"novacare-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func doctorIDFrom(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return uuid.Nil, false
	}
	return doctorID, true
}

func (h *DoctorHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	if writeCommonError(w, err) {
		return
	}
	switch err {
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrWorkingHoursNotFound:
		response.NotFound(w, "Working hours not found")
	default:
		response.InternalServerError(w, fallback)
	}
}

// ListDoctors is the public doctor directory
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	query := dto.DoctorListQuery{
		Specialization: r.URL.Query().Get("specialization"),
		OnlyAvailable:  r.URL.Query().Get("available") == "true",
	}

	doctors, err := h.doctorUsecase.ListDoctors(r.Context(), &query)
	if err != nil {
		response.InternalServerError(w, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := doctorIDFrom(w, r)
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		h.writeError(w, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.CreateDoctor(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Failed to create doctor")
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := doctorIDFrom(w, r)
	if !ok {
		return
	}

	var req dto.UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.UpdateDoctor(r.Context(), doctorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

func (h *DoctorHandler) AddWorkingHours(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := doctorIDFrom(w, r)
	if !ok {
		return
	}

	var req dto.CreateWorkingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	hours, err := h.doctorUsecase.AddWorkingHours(r.Context(), doctorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to add working hours")
		return
	}

	response.Success(w, http.StatusCreated, "Working hours added successfully", hours)
}

func (h *DoctorHandler) ListWorkingHours(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := doctorIDFrom(w, r)
	if !ok {
		return
	}

	hours, err := h.doctorUsecase.ListWorkingHours(r.Context(), doctorID)
	if err != nil {
		h.writeError(w, err, "Failed to get working hours")
		return
	}

	response.Success(w, http.StatusOK, "Working hours retrieved successfully", hours)
}

func (h *DoctorHandler) DeleteWorkingHours(w http.ResponseWriter, r *http.Request) {
	hoursID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid working hours ID", nil)
		return
	}

	if err := h.doctorUsecase.DeleteWorkingHours(r.Context(), hoursID); err != nil {
		h.writeError(w, err, "Failed to delete working hours")
		return
	}

	response.Success(w, http.StatusOK, "Working hours deleted successfully", nil)
}

func (h *DoctorHandler) SetFees(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := doctorIDFrom(w, r)
	if !ok {
		return
	}

	var req dto.SetFeesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.SetFees(r.Context(), doctorID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update fees")
		return
	}

	response.Success(w, http.StatusOK, "Fees updated successfully", doctor)
}
