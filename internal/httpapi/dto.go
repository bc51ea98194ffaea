package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/reservefield/booking-core/internal/booking"
	"github.com/reservefield/booking-core/internal/calendar"
	"github.com/reservefield/booking-core/internal/model"
)

// Поля ответов: на испанском, как в клиентском приложении.

type facilityDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Type        string  `json:"tipo"`
	Location    string  `json:"ubicacion"`
	HourlyRate  string  `json:"precio_hora"`
	Rating      float64 `json:"calificacion"`
	ReviewCount int     `json:"total_resenas"`
	Capacity    int     `json:"capacidad"`
	Available   bool    `json:"disponible"`
}

func toFacilityDTO(f *model.Facility) facilityDTO {
	return facilityDTO{
		ID:          f.ID.String(),
		Name:        f.Name,
		Description: f.Description,
		Type:        string(f.Type),
		Location:    f.Location,
		HourlyRate:  f.HourlyRate.StringFixed(2),
		Rating:      f.Rating,
		ReviewCount: f.ReviewCount,
		Capacity:    f.Capacity,
		Available:   f.Available,
	}
}

type scheduleDTO struct {
	Weekday int    `json:"dia"`
	DayName string `json:"dia_nombre"`
	Opens   string `json:"hora_apertura"`
	Closes  string `json:"hora_cierre"`
}

func toScheduleDTO(s *model.WeeklySchedule) scheduleDTO {
	return scheduleDTO{
		Weekday: int(s.Weekday),
		DayName: s.Weekday.Name(),
		Opens:   calendar.FormatClock(s.OpensAt),
		Closes:  calendar.FormatClock(s.ClosesAt),
	}
}

type reviewDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"usuario_id"`
	Rating    int       `json:"calificacion"`
	Comment   string    `json:"comentario"`
	CreatedAt time.Time `json:"fecha"`
}

func toReviewDTO(r *model.Review) reviewDTO {
	return reviewDTO{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

type facilityDetailDTO struct {
	facilityDTO
	Schedules []scheduleDTO `json:"horarios"`
	Reviews   []reviewDTO   `json:"resenas"`
	OwnReview *reviewDTO    `json:"mi_resena"`
}

func toFacilityDetailDTO(d *booking.FacilityDetail) facilityDetailDTO {
	out := facilityDetailDTO{
		facilityDTO: toFacilityDTO(d.Facility),
		Schedules:   make([]scheduleDTO, 0, len(d.Facility.Schedules)),
		Reviews:     make([]reviewDTO, 0, len(d.Facility.Reviews)),
	}
	for i := range d.Facility.Schedules {
		out.Schedules = append(out.Schedules, toScheduleDTO(&d.Facility.Schedules[i]))
	}
	for i := range d.Facility.Reviews {
		out.Reviews = append(out.Reviews, toReviewDTO(&d.Facility.Reviews[i]))
	}
	if d.OwnReview != nil {
		own := toReviewDTO(d.OwnReview)
		out.OwnReview = &own
	}
	return out
}

type reservationDTO struct {
	ID           string `json:"id"`
	FacilityID   string `json:"cancha_id"`
	FacilityName string `json:"cancha_nombre,omitempty"`
	Date         string `json:"fecha"`
	Start        string `json:"hora_inicio"`
	End          string `json:"hora_fin"`
	Status       string `json:"estado"`
	Total        string `json:"total"`
}

func toReservationDTO(r *model.Reservation) reservationDTO {
	out := reservationDTO{
		ID:         r.ID.String(),
		FacilityID: r.FacilityID.String(),
		Date:       time.Time(r.Date).Format(calendar.DateLayout),
		Start:      calendar.FormatClock(r.StartTime),
		End:        calendar.FormatClock(r.EndTime),
		Status:     string(r.Status),
		Total:      r.Total.StringFixed(2),
	}
	if r.Facility != nil {
		out.FacilityName = r.Facility.Name
	}
	return out
}

type pageDTO[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	Total    int  `json:"total"`
	HasNext  bool `json:"has_next"`
	HasPrev  bool `json:"has_prev"`
}

func toPageDTO[S, T any](p calendar.Page[S], conv func(*S) T) pageDTO[T] {
	items := make([]T, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, conv(&p.Items[i]))
	}
	return pageDTO[T]{
		Items:    items,
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
		HasNext:  p.HasNext,
		HasPrev:  p.HasPrev,
	}
}

type slotRequest struct {
	Date  string `json:"fecha"`
	Start string `json:"hora_inicio"`
	End   string `json:"hora_fin"`
}

type quoteResponse struct {
	Success    bool   `json:"success"`
	Date       string `json:"fecha"`
	Start      string `json:"hora_inicio"`
	End        string `json:"hora_fin"`
	HourlyRate string `json:"precio_hora"`
	Total      string `json:"total"`
}

type reservationResponse struct {
	Success     bool           `json:"success"`
	Message     string         `json:"message"`
	Reservation reservationDTO `json:"reserva"`
}

type reviewRequest struct {
	Rating  int    `json:"calificacion"`
	Comment string `json:"comentario"`
}

type reviewResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Review  reviewDTO `json:"resena"`
}

// availabilityResponse: проекция дня для клиентского календаря.
// Время в формате HH:MM:SS.
type availabilityResponse struct {
	Success  bool        `json:"success"`
	Opens    string      `json:"hora_apertura"`
	Closes   string      `json:"hora_cierre"`
	Existing [][2]string `json:"reservas_existentes"`
}

type intervalDTO struct {
	Start string `json:"hora_inicio"`
	End   string `json:"hora_fin"`
}

type freeSlotsResponse struct {
	Success bool          `json:"success"`
	Date    string        `json:"fecha"`
	Slots   []intervalDTO `json:"slots"`
}

type createFacilityRequest struct {
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Type        string          `json:"tipo"`
	Location    string          `json:"ubicacion"`
	HourlyRate  decimal.Decimal `json:"precio_hora"`
	Capacity    int             `json:"capacidad"`
	Available   *bool           `json:"disponible"`
}

type scheduleRequest struct {
	Opens  string `json:"hora_apertura"`
	Closes string `json:"hora_cierre"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
