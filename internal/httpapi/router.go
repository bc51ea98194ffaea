// Package httpapi: HTTP-интерфейс ядра бронирования.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/reservefield/booking-core/internal/booking"
	"github.com/reservefield/booking-core/internal/calendar"
	"github.com/reservefield/booking-core/internal/model"
	"github.com/reservefield/booking-core/internal/repository"
)

// BookingService: операции ядра, которые вызывает HTTP-слой.
type BookingService interface {
	ListFacilities(ctx context.Context, filter repository.FacilityFilter, page, pageSize int) (calendar.Page[model.Facility], error)
	FacilityDetail(ctx context.Context, facilityID, userID uuid.UUID) (*booking.FacilityDetail, error)
	CheckAndPrice(ctx context.Context, facilityID uuid.UUID, slot booking.Slot) (*booking.Quote, error)
	CreateReservation(ctx context.Context, userID, facilityID uuid.UUID, slot booking.Slot) (*model.Reservation, error)
	CancelReservation(ctx context.Context, reservationID, userID uuid.UUID) error
	CompleteReservation(ctx context.Context, reservationID uuid.UUID) error
	ListReservations(ctx context.Context, userID uuid.UUID, tab repository.ReservationTab, search string, page, pageSize int) (calendar.Page[model.Reservation], error)
	SubmitReview(ctx context.Context, userID, facilityID uuid.UUID, rating int, comment string) (*model.Review, error)
	DeleteReview(ctx context.Context, userID, facilityID uuid.UUID) error
	DayAvailability(ctx context.Context, facilityID uuid.UUID, date time.Time) (*booking.DaySchedule, error)
	FreeSlots(ctx context.Context, facilityID uuid.UUID, date time.Time, step time.Duration) ([]booking.Interval, error)
	CreateFacility(ctx context.Context, in booking.NewFacility) (*model.Facility, error)
	SetWeeklySchedule(ctx context.Context, facilityID uuid.UUID, day model.Weekday, opens, closes datatypes.Time) (*model.WeeklySchedule, error)
}

type Config struct {
	JWTSecret   []byte
	CORSOrigins []string
	Logger      zerolog.Logger
}

type Handler struct {
	svc       BookingService
	jwtSecret []byte
	logger    zerolog.Logger
}

func NewHandler(svc BookingService, cfg Config) *Handler {
	return &Handler{
		svc:       svc,
		jwtSecret: cfg.JWTSecret,
		logger:    cfg.Logger,
	}
}

// NewRouter собирает маршруты. Все /api-маршруты требуют bearer-токен.
func NewRouter(svc BookingService, cfg Config) http.Handler {
	h := NewHandler(svc, cfg)

	standard := alice.New(h.recoverPanic, h.logRequest, secureHeaders, makeResponseJSON)
	user := standard.Append(h.requireRole(""))
	admin := standard.Append(h.requireRole(RoleAdmin))

	r := mux.NewRouter()
	r.Handle("/healthz", standard.ThenFunc(h.health)).Methods(http.MethodGet)

	// Каталог
	r.Handle("/api/canchas", user.ThenFunc(h.listFacilities)).Methods(http.MethodGet)
	r.Handle("/api/canchas/{id}", user.ThenFunc(h.facilityDetail)).Methods(http.MethodGet)

	// Бронирование
	r.Handle("/api/canchas/{id}/cotizar", user.ThenFunc(h.checkAndPrice)).Methods(http.MethodPost)
	r.Handle("/api/canchas/{id}/reservas", user.ThenFunc(h.createReservation)).Methods(http.MethodPost)
	r.Handle("/api/canchas/{id}/slots-libres", user.ThenFunc(h.freeSlots)).Methods(http.MethodGet)
	r.Handle("/api/horarios-disponibles/{id}", user.ThenFunc(h.dayAvailability)).Methods(http.MethodGet)
	r.Handle("/api/mis-reservas", user.ThenFunc(h.myReservations)).Methods(http.MethodGet)
	r.Handle("/api/reservas/{id}/cancelar", user.ThenFunc(h.cancelReservation)).Methods(http.MethodPost)

	// Отзывы
	r.Handle("/api/canchas/{id}/resenas", user.ThenFunc(h.submitReview)).Methods(http.MethodPost)
	r.Handle("/api/canchas/{id}/resenas", user.ThenFunc(h.deleteReview)).Methods(http.MethodDelete)

	// Администрирование
	r.Handle("/api/admin/canchas", admin.ThenFunc(h.createFacility)).Methods(http.MethodPost)
	r.Handle("/api/admin/canchas/{id}/horarios/{dia}", admin.ThenFunc(h.setSchedule)).Methods(http.MethodPut)
	r.Handle("/api/admin/reservas/{id}/completar", admin.ThenFunc(h.completeReservation)).Methods(http.MethodPost)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return c.Handler(r)
}

// NewServer: http.Server с таймаутами из конфига.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}
