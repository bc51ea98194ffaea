package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	reservationpb "github.com/reservefield/booking-core/internal/api/reservation/v1"
	"github.com/reservefield/booking-core/internal/booking"
	"github.com/reservefield/booking-core/internal/calendar"
	"github.com/reservefield/booking-core/internal/model"
)

// Booking: операции ядра, доступные по gRPC.
type Booking interface {
	CheckAndPrice(ctx context.Context, facilityID uuid.UUID, slot booking.Slot) (*booking.Quote, error)
	CreateReservation(ctx context.Context, userID, facilityID uuid.UUID, slot booking.Slot) (*model.Reservation, error)
	CancelReservation(ctx context.Context, reservationID, userID uuid.UUID) error
	SubmitReview(ctx context.Context, userID, facilityID uuid.UUID, rating int, comment string) (*model.Review, error)
	DayAvailability(ctx context.Context, facilityID uuid.UUID, date time.Time) (*booking.DaySchedule, error)
}

type ReservationService struct {
	reservationpb.UnimplementedReservationServiceServer

	core   Booking
	logger zerolog.Logger
}

func NewReservationService(core Booking, logger zerolog.Logger) *ReservationService {
	return &ReservationService{
		core:   core,
		logger: logger,
	}
}

// CheckAndPrice: проверка слота и цена без записи.
func (s *ReservationService) CheckAndPrice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	facilityID, err := uuidField(req, "facility_id")
	if err != nil {
		return nil, err
	}
	slot, err := slotFields(req)
	if err != nil {
		return nil, err
	}

	quote, err := s.core.CheckAndPrice(ctx, facilityID, slot)
	if err != nil {
		return s.rejection(err, "check and price")
	}

	return accepted(map[string]any{
		"hourly_rate": quote.HourlyRate.StringFixed(2),
		"total":       quote.Total.StringFixed(2),
	})
}

func (s *ReservationService) CreateReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}
	facilityID, err := uuidField(req, "facility_id")
	if err != nil {
		return nil, err
	}
	slot, err := slotFields(req)
	if err != nil {
		return nil, err
	}

	reservation, err := s.core.CreateReservation(ctx, userID, facilityID, slot)
	if err != nil {
		return s.rejection(err, "create reservation")
	}

	return accepted(map[string]any{
		"reservation_id": reservation.ID.String(),
		"status":         string(reservation.Status),
		"total":          reservation.Total.StringFixed(2),
	})
}

func (s *ReservationService) CancelReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}
	reservationID, err := uuidField(req, "reservation_id")
	if err != nil {
		return nil, err
	}

	if err := s.core.CancelReservation(ctx, reservationID, userID); err != nil {
		return s.rejection(err, "cancel reservation")
	}
	return accepted(nil)
}

func (s *ReservationService) SubmitReview(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := uuidField(req, "user_id")
	if err != nil {
		return nil, err
	}
	facilityID, err := uuidField(req, "facility_id")
	if err != nil {
		return nil, err
	}

	rating, err := intField(req, "rating")
	if err != nil {
		return nil, err
	}

	review, err := s.core.SubmitReview(ctx, userID, facilityID, rating, stringField(req, "comment"))
	if err != nil {
		return s.rejection(err, "submit review")
	}

	return accepted(map[string]any{
		"review_id": review.ID.String(),
		"rating":    review.Rating,
	})
}

// GetDayAvailability: часы работы и занятые интервалы на дату, время HH:MM:SS.
func (s *ReservationService) GetDayAvailability(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	facilityID, err := uuidField(req, "facility_id")
	if err != nil {
		return nil, err
	}
	date, err := calendar.ParseDate(stringField(req, "date"))
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	day, err := s.core.DayAvailability(ctx, facilityID, date)
	if err != nil {
		return s.rejection(err, "day availability")
	}

	booked := make([]any, 0, len(day.Booked))
	for _, iv := range day.Booked {
		booked = append(booked, []any{iv.Start.String(), iv.End.String()})
	}
	return accepted(map[string]any{
		"opens_at":  day.OpensAt.String(),
		"closes_at": day.ClosesAt.String(),
		"booked":    booked,
	})
}

// rejection отвечает отказом в теле ответа. Отсутствующие сущности,
// плохие аргументы и сбои хранилища уходят кодами gRPC.
func (s *ReservationService) rejection(err error, op string) (*structpb.Struct, error) {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return nil, status.Error(codes.NotFound, err.Error())
	case errors.Is(err, booking.ErrValidation):
		return nil, status.Error(codes.InvalidArgument, err.Error())
	case booking.IsRejection(err):
		return structpb.NewStruct(map[string]any{
			"accepted": false,
			"reason":   string(booking.ReasonOf(err)),
			"message":  err.Error(),
		})
	default:
		s.logger.Error().Err(err).Str("op", op).Msg("grpc call failed")
		return nil, status.Errorf(codes.Internal, "%s: %v", op, err)
	}
}

func accepted(fields map[string]any) (*structpb.Struct, error) {
	out := map[string]any{"accepted": true}
	for k, v := range fields {
		out[k] = v
	}
	resp, err := structpb.NewStruct(out)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

func uuidField(req *structpb.Struct, key string) (uuid.UUID, error) {
	v := stringField(req, key)
	if v == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s must be a uuid", key)
	}
	return id, nil
}

// intField: числовое поле с целым значением. Дробные не округляем.
func intField(req *structpb.Struct, key string) (int, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a number", key)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a whole number", key)
	}
	return int(f), nil
}

func slotFields(req *structpb.Struct) (booking.Slot, error) {
	slot, err := booking.ParseSlot(stringField(req, "date"), stringField(req, "start_time"), stringField(req, "end_time"))
	if err != nil {
		return booking.Slot{}, status.Error(codes.InvalidArgument, err.Error())
	}
	return slot, nil
}
