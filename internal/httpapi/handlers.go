package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/reservefield/booking-core/internal/booking"
	"github.com/reservefield/booking-core/internal/calendar"
	"github.com/reservefield/booking-core/internal/model"
	"github.com/reservefield/booking-core/internal/repository"
)

const defaultSlotMinutes = 60

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad %s", booking.ErrValidation, name)
	}
	return id, nil
}

// currentUser достаёт пользователя, положенного requireRole.
func currentUser(r *http.Request) uuid.UUID {
	id, _ := UserIDFrom(r.Context())
	return id
}

func (h *Handler) listFacilities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.FacilityFilter{
		Type:     model.FacilityType(q.Get("tipo")),
		Location: q.Get("ubicacion"),
		Search:   q.Get("busqueda"),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		h.writeError(w, booking.ErrValidation, "Tipo de cancha desconocido")
		return
	}

	page, size := calendar.ParsePage(q.Get("page"), q.Get("page_size"))
	facilities, err := h.svc.ListFacilities(r.Context(), filter, page, size)
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, toPageDTO(facilities, toFacilityDTO))
}

func (h *Handler) facilityDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	detail, err := h.svc.FacilityDetail(r.Context(), id, currentUser(r))
	if err != nil {
		h.writeError(w, err, "Cancha no encontrada")
		return
	}

	writeJSON(w, http.StatusOK, toFacilityDetailDTO(detail))
}

func (h *Handler) readSlot(r *http.Request) (uuid.UUID, booking.Slot, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return uuid.Nil, booking.Slot{}, err
	}

	var req slotRequest
	if err := decodeJSON(r, &req); err != nil {
		return uuid.Nil, booking.Slot{}, err
	}
	slot, err := booking.ParseSlot(req.Date, req.Start, req.End)
	if err != nil {
		return uuid.Nil, booking.Slot{}, err
	}
	return id, slot, nil
}

func (h *Handler) checkAndPrice(w http.ResponseWriter, r *http.Request) {
	id, slot, err := h.readSlot(r)
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	quote, err := h.svc.CheckAndPrice(r.Context(), id, slot)
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, quoteResponse{
		Success:    true,
		Date:       quote.Slot.Date.Format(calendar.DateLayout),
		Start:      calendar.FormatClock(quote.Slot.Start),
		End:        calendar.FormatClock(quote.Slot.End),
		HourlyRate: quote.HourlyRate.StringFixed(2),
		Total:      quote.Total.StringFixed(2),
	})
}

func (h *Handler) createReservation(w http.ResponseWriter, r *http.Request) {
	id, slot, err := h.readSlot(r)
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	reservation, err := h.svc.CreateReservation(r.Context(), currentUser(r), id, slot)
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, reservationResponse{
		Success:     true,
		Message:     fmt.Sprintf("Reserva confirmada por $%s", reservation.Total.StringFixed(2)),
		Reservation: toReservationDTO(reservation),
	})
}

func (h *Handler) cancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	err = h.svc.CancelReservation(r.Context(), id, currentUser(r))
	switch {
	case errors.Is(err, booking.ErrPastDate):
		h.writeError(w, err, "No puedes cancelar reservas pasadas")
		return
	case errors.Is(err, booking.ErrNotFound):
		h.writeError(w, err, "Reserva no encontrada")
		return
	case err != nil:
		h.writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Reserva cancelada correctamente"})
}

func (h *Handler) myReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tab := repository.ReservationTabUpcoming
	switch q.Get("tab") {
	case "", "proximas":
	case "historial":
		tab = repository.ReservationTabHistory
	default:
		h.writeError(w, booking.ErrValidation, "Pestaña desconocida")
		return
	}

	page, size := calendar.ParsePage(q.Get("page"), q.Get("page_size"))
	reservations, err := h.svc.ListReservations(r.Context(), currentUser(r), tab, q.Get("busqueda"), page, size)
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, toPageDTO(reservations, toReservationDTO))
}

func (h *Handler) submitReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err, "")
		return
	}

	review, err := h.svc.SubmitReview(r.Context(), currentUser(r), id, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, booking.ErrValidation) {
			h.writeError(w, err, fmt.Sprintf("La calificación debe estar entre %d y %d", model.MinRating, model.MaxRating))
			return
		}
		h.writeError(w, err, "")
		return
	}

	msg := "Reseña creada"
	if review.UpdatedAt.After(review.CreatedAt) {
		msg = "Reseña actualizada"
	}
	writeJSON(w, http.StatusOK, reviewResponse{Success: true, Message: msg, Review: toReviewDTO(review)})
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	if err := h.svc.DeleteReview(r.Context(), currentUser(r), id); err != nil {
		h.writeError(w, err, "Reseña no encontrada")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Reseña eliminada"})
}

// dayAvailability отдаёт часы работы и занятые интервалы.
// Отказы по дате и расписанию приходят с 200 и success=false.
func (h *Handler) dayAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	date, err := calendar.ParseDate(r.URL.Query().Get("fecha"))
	if err != nil {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Fecha inválida"})
		return
	}

	day, err := h.svc.DayAvailability(r.Context(), id, date)
	switch {
	case errors.Is(err, booking.ErrNoScheduleForDay):
		writeJSON(w, http.StatusOK, messageResponse{Message: userMessage(err)})
		return
	case err != nil:
		h.writeError(w, err, "Cancha no encontrada")
		return
	}

	existing := make([][2]string, 0, len(day.Booked))
	for _, iv := range day.Booked {
		existing = append(existing, [2]string{iv.Start.String(), iv.End.String()})
	}
	writeJSON(w, http.StatusOK, availabilityResponse{
		Success:  true,
		Opens:    day.OpensAt.String(),
		Closes:   day.ClosesAt.String(),
		Existing: existing,
	})
}

func (h *Handler) freeSlots(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	q := r.URL.Query()
	date, err := calendar.ParseDate(q.Get("fecha"))
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", booking.ErrValidation, err), "Fecha inválida")
		return
	}

	minutes := defaultSlotMinutes
	if v := q.Get("duracion"); v != "" {
		minutes, err = strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			h.writeError(w, booking.ErrValidation, "Duración inválida")
			return
		}
	}

	slots, err := h.svc.FreeSlots(r.Context(), id, date, time.Duration(minutes)*time.Minute)
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	out := freeSlotsResponse{Success: true, Date: date.Format(calendar.DateLayout), Slots: make([]intervalDTO, 0, len(slots))}
	for _, s := range slots {
		out.Slots = append(out.Slots, intervalDTO{Start: calendar.FormatClock(s.Start), End: calendar.FormatClock(s.End)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createFacility(w http.ResponseWriter, r *http.Request) {
	var req createFacilityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err, "")
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	f, err := h.svc.CreateFacility(r.Context(), booking.NewFacility{
		Name:        req.Name,
		Description: req.Description,
		Type:        model.FacilityType(req.Type),
		Location:    req.Location,
		HourlyRate:  req.HourlyRate,
		Capacity:    req.Capacity,
		Available:   available,
	})
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, toFacilityDTO(f))
}

func (h *Handler) setSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err, "")
		return
	}
	day, err := strconv.Atoi(mux.Vars(r)["dia"])
	if err != nil {
		h.writeError(w, booking.ErrValidation, "Día inválido")
		return
	}

	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err, "")
		return
	}
	opens, err := calendar.ParseClock(req.Opens)
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", booking.ErrValidation, err), "")
		return
	}
	closes, err := calendar.ParseClock(req.Closes)
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: %v", booking.ErrValidation, err), "")
		return
	}

	schedule, err := h.svc.SetWeeklySchedule(r.Context(), id, model.Weekday(day), opens, closes)
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, toScheduleDTO(schedule))
}

func (h *Handler) completeReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err, "")
		return
	}

	if err := h.svc.CompleteReservation(r.Context(), id); err != nil {
		h.writeError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Reserva completada"})
}
