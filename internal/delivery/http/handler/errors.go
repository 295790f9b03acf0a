package handler

import (
	"errors"
	"net/http"
	"strconv"

	"novacare-booking/internal/domain/entity"
	"novacare-booking/internal/usecase"
	"novacare-booking/pkg/response"
)

// writeCommonError answers the failures every handler treats the same way.
// It returns false when err needs a handler-specific response.
func writeCommonError(w http.ResponseWriter, err error) bool {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationError(w, verr.Fields())
	case errors.Is(err, usecase.ErrSlotTaken):
		response.Conflict(w, response.CodeSlotTaken, "Slot is no longer available, please choose another time")
	case errors.Is(err, entity.ErrInvalidTransition):
		response.Conflict(w, response.CodeInvalidTransition, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, "You don't have permission to access this resource")
	default:
		return false
	}
	return true
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func invalidQuery(w http.ResponseWriter, name string) {
	response.ValidationError(w, map[string]string{name: "must be a non-negative integer"})
}
