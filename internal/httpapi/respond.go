package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/reservefield/booking-core/internal/booking"
	"github.com/reservefield/booking-core/internal/calendar"
)

const msgInvalidData = "Datos inválidos"

var reasonMessages = map[booking.Reason]string{
	booking.ReasonValidation:          msgInvalidData,
	booking.ReasonPastDate:            "No puedes reservar en fechas pasadas",
	booking.ReasonInvalidRange:        "La hora de inicio debe ser menor a la hora de fin",
	booking.ReasonNoScheduleForDay:    "No hay horarios disponibles para este día",
	booking.ReasonOverlap:             "Este horario ya está reservado",
	booking.ReasonNotFound:            "No encontrado",
	booking.ReasonNotOwner:            "Esta reserva pertenece a otro usuario",
	booking.ReasonFacilityUnavailable: "La cancha no está disponible para reservas",
	booking.ReasonInvalidTransition:   "La reserva ya no puede cambiar de estado",
}

var reasonStatus = map[booking.Reason]int{
	booking.ReasonValidation:            http.StatusBadRequest,
	booking.ReasonPastDate:              http.StatusUnprocessableEntity,
	booking.ReasonInvalidRange:          http.StatusBadRequest,
	booking.ReasonNoScheduleForDay:      http.StatusUnprocessableEntity,
	booking.ReasonOutsideOperatingHours: http.StatusUnprocessableEntity,
	booking.ReasonOverlap:               http.StatusConflict,
	booking.ReasonNotFound:              http.StatusNotFound,
	booking.ReasonNotOwner:              http.StatusForbidden,
	booking.ReasonFacilityUnavailable:   http.StatusConflict,
	booking.ReasonInvalidTransition:     http.StatusConflict,
}

// userMessage: сообщение об отказе для пользователя.
func userMessage(err error) string {
	var outside *booking.OutsideHoursError
	if errors.As(err, &outside) {
		return fmt.Sprintf("El horario debe estar entre %s y %s",
			calendar.FormatClock(outside.Opens), calendar.FormatClock(outside.Closes))
	}
	if msg, ok := reasonMessages[booking.ReasonOf(err)]; ok {
		return msg
	}
	return "Error interno del servidor"
}

type errorResponse struct {
	Success bool           `json:"success"`
	Reason  booking.Reason `json:"reason,omitempty"`
	Message string         `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// writeError отвечает отказом 4xx либо 500 для сбоев хранилища.
// message, если не пустое, заменяет стандартный текст отказа.
func (h *Handler) writeError(w http.ResponseWriter, err error, message string) {
	reason := booking.ReasonOf(err)
	if reason == "" {
		h.serverError(w, err)
		return
	}
	if message == "" {
		message = userMessage(err)
	}
	writeJSON(w, reasonStatus[reason], errorResponse{Reason: reason, Message: message})
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	h.logger.Error().Err(err).Msg("request failed")
	writeMessage(w, http.StatusInternalServerError, "Error interno del servidor")
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", booking.ErrValidation, err)
	}
	return nil
}
