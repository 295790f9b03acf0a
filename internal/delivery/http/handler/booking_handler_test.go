package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"novacare-booking/internal/delivery/dto"
	"novacare-booking/internal/domain/entity"
	"novacare-booking/internal/usecase"
	"novacare-booking/pkg/response"
	"novacare-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBookingUsecase struct {
	mock.Mock
}

func (m *mockBookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingCreatedResponse, error) {
	args := m.Called(ctx, req)
	booking, _ := args.Get(0).(*dto.BookingCreatedResponse)
	return booking, args.Error(1)
}

func (m *mockBookingUsecase) UpdateBookingStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error) {
	args := m.Called(ctx, id, req)
	booking, _ := args.Get(0).(*dto.BookingResponse)
	return booking, args.Error(1)
}

func (m *mockBookingUsecase) GetBooking(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error) {
	args := m.Called(ctx, id)
	booking, _ := args.Get(0).(*dto.BookingResponse)
	return booking, args.Error(1)
}

func (m *mockBookingUsecase) ListBookings(ctx context.Context, query *dto.BookingListQuery) (*dto.BookingListResponse, error) {
	args := m.Called(ctx, query)
	list, _ := args.Get(0).(*dto.BookingListResponse)
	return list, args.Error(1)
}

func (m *mockBookingUsecase) GetTodayBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).(*dto.BookingListResponse)
	return list, args.Error(1)
}

func (m *mockBookingUsecase) LookupByPhone(ctx context.Context, query *dto.BookingLookupQuery) ([]dto.BookingStatusResponse, error) {
	args := m.Called(ctx, query)
	found, _ := args.Get(0).([]dto.BookingStatusResponse)
	return found, args.Error(1)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func postBooking(h *BookingHandler, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateBooking(rec, req)
	return rec
}

func validBookingPayload() map[string]interface{} {
	return map[string]interface{}{
		"doctor_id":     uuid.NewString(),
		"date":          "2026-03-09",
		"time":          "10:30",
		"patient_name":  "Asha Rao",
		"patient_phone": "+91 98000 00001",
	}
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	t.Run("admits booking", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())

		uc.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req *dto.CreateBookingRequest) bool {
			return req.Time == "10:30" && req.PatientName == "Asha Rao"
		})).Return(&dto.BookingCreatedResponse{BookingCode: "BK-20260309-00ABCD", Status: "pending"}, nil)

		rec := postBooking(h, validBookingPayload())

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, decodeResponse(t, rec).Success)
		uc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		h.CreateBooking(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("request validation names json fields", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())

		payload := validBookingPayload()
		payload["time"] = "10.30"
		payload["patient_phone"] = "call me"

		rec := postBooking(h, payload)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeResponse(t, rec)
		assert.Equal(t, response.CodeValidation, body.Code)
		fields, ok := body.Error.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, fields, "time")
		assert.Contains(t, fields, "patient_phone")
		uc.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	})

	t.Run("usecase field error", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		uc.On("CreateBooking", mock.Anything, mock.Anything).
			Return(nil, &usecase.ValidationError{Field: "time", Err: usecase.ErrSlotOffGrid})

		rec := postBooking(h, validBookingPayload())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeResponse(t, rec)
		assert.Equal(t, map[string]interface{}{"time": usecase.ErrSlotOffGrid.Error()}, body.Error)
	})

	t.Run("slot taken", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		uc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, usecase.ErrSlotTaken)

		rec := postBooking(h, validBookingPayload())

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, response.CodeSlotTaken, decodeResponse(t, rec).Code)
	})

	t.Run("unknown doctor", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		uc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, usecase.ErrDoctorNotFound)

		assert.Equal(t, http.StatusNotFound, postBooking(h, validBookingPayload()).Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		uc.On("CreateBooking", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		assert.Equal(t, http.StatusInternalServerError, postBooking(h, validBookingPayload()).Code)
	})
}

func patchStatus(h *BookingHandler, id string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+id+"/status", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rec := httptest.NewRecorder()
	h.UpdateBookingStatus(rec, req)
	return rec
}

func TestBookingHandler_UpdateBookingStatus(t *testing.T) {
	bookingID := uuid.New()

	t.Run("confirms", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		uc.On("UpdateBookingStatus", mock.Anything, bookingID, mock.MatchedBy(func(req *dto.UpdateBookingStatusRequest) bool {
			return req.Status == "confirmed"
		})).Return(&dto.BookingResponse{ID: bookingID, Status: "confirmed"}, nil)

		rec := patchStatus(h, bookingID.String(), map[string]string{"status": "confirmed"})

		assert.Equal(t, http.StatusOK, rec.Code)
		uc.AssertExpectations(t)
	})

	t.Run("rejected transition", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		uc.On("UpdateBookingStatus", mock.Anything, bookingID, mock.Anything).Return(nil,
			&entity.TransitionError{From: entity.BookingStatusPending, To: entity.BookingStatusCompleted})

		rec := patchStatus(h, bookingID.String(), map[string]string{"status": "completed"})

		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decodeResponse(t, rec)
		assert.Equal(t, response.CodeInvalidTransition, body.Code)
		assert.Contains(t, body.Message, "pending to completed")
	})

	t.Run("unknown status value", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())

		rec := patchStatus(h, bookingID.String(), map[string]string{"status": "rescheduled"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		uc.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bad id", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())

		assert.Equal(t, http.StatusBadRequest, patchStatus(h, "42", map[string]string{"status": "confirmed"}).Code)
	})

	t.Run("not found", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		uc.On("UpdateBookingStatus", mock.Anything, bookingID, mock.Anything).Return(nil, usecase.ErrBookingNotFound)

		assert.Equal(t, http.StatusNotFound, patchStatus(h, bookingID.String(), map[string]string{"status": "cancelled"}).Code)
	})

	t.Run("other doctor's booking", func(t *testing.T) {
		uc := new(mockBookingUsecase)
		h := NewBookingHandler(uc, validator.NewValidator())
		uc.On("UpdateBookingStatus", mock.Anything, bookingID, mock.Anything).Return(nil, usecase.ErrForbidden)

		assert.Equal(t, http.StatusForbidden, patchStatus(h, bookingID.String(), map[string]string{"status": "confirmed"}).Code)
	})
}

func TestBookingHandler_ListBookings_RejectsNegativePage(t *testing.T) {
	uc := new(mockBookingUsecase)
	h := NewBookingHandler(uc, validator.NewValidator())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?page=-1", nil)
	rec := httptest.NewRecorder()
	h.ListBookings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "ListBookings", mock.Anything, mock.Anything)
}

func TestBookingHandler_ListBookings_WritesMeta(t *testing.T) {
	uc := new(mockBookingUsecase)
	h := NewBookingHandler(uc, validator.NewValidator())
	uc.On("ListBookings", mock.Anything, mock.MatchedBy(func(q *dto.BookingListQuery) bool {
		return q.Status == "pending" && q.Page == 2
	})).Return(&dto.BookingListResponse{Bookings: []dto.BookingResponse{}, Total: 41, Page: 2, Limit: 20}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=pending&page=2", nil)
	rec := httptest.NewRecorder()
	h.ListBookings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, int64(41), body.Meta.Total)
	assert.Equal(t, 3, body.Meta.TotalPages)
}
