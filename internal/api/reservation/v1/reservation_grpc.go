// Package reservationv1 описывает gRPC-контракт reservation.v1.ReservationService.
//
// Сообщения: google.protobuf.Struct, поля запросов:
//
//	CheckAndPrice       facility_id, date, start_time, end_time
//	CreateReservation   user_id, facility_id, date, start_time, end_time
//	CancelReservation   user_id, reservation_id
//	SubmitReview        user_id, facility_id, rating, comment
//	GetDayAvailability  facility_id, date
//
// Ответ всегда содержит accepted; при отказе по правилам бронирования
// accepted=false и заполнены reason и message.
package reservationv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "reservation.v1.ReservationService"

const (
	ReservationService_CheckAndPrice_FullMethodName      = "/" + ServiceName + "/CheckAndPrice"
	ReservationService_CreateReservation_FullMethodName  = "/" + ServiceName + "/CreateReservation"
	ReservationService_CancelReservation_FullMethodName  = "/" + ServiceName + "/CancelReservation"
	ReservationService_SubmitReview_FullMethodName       = "/" + ServiceName + "/SubmitReview"
	ReservationService_GetDayAvailability_FullMethodName = "/" + ServiceName + "/GetDayAvailability"
)

type ReservationServiceClient interface {
	CheckAndPrice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateReservation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CancelReservation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	SubmitReview(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetDayAvailability(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type reservationServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewReservationServiceClient(cc grpc.ClientConnInterface) ReservationServiceClient {
	return &reservationServiceClient{cc: cc}
}

func (c *reservationServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reservationServiceClient) CheckAndPrice(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ReservationService_CheckAndPrice_FullMethodName, in, opts)
}

func (c *reservationServiceClient) CreateReservation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ReservationService_CreateReservation_FullMethodName, in, opts)
}

func (c *reservationServiceClient) CancelReservation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ReservationService_CancelReservation_FullMethodName, in, opts)
}

func (c *reservationServiceClient) SubmitReview(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ReservationService_SubmitReview_FullMethodName, in, opts)
}

func (c *reservationServiceClient) GetDayAvailability(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ReservationService_GetDayAvailability_FullMethodName, in, opts)
}

// ReservationServiceServer: серверная сторона. Реализации встраивают
// UnimplementedReservationServiceServer.
type ReservationServiceServer interface {
	CheckAndPrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateReservation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelReservation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitReview(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDayAvailability(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedReservationServiceServer()
}

type UnimplementedReservationServiceServer struct{}

func (UnimplementedReservationServiceServer) CheckAndPrice(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckAndPrice not implemented")
}

func (UnimplementedReservationServiceServer) CreateReservation(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateReservation not implemented")
}

func (UnimplementedReservationServiceServer) CancelReservation(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelReservation not implemented")
}

func (UnimplementedReservationServiceServer) SubmitReview(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitReview not implemented")
}

func (UnimplementedReservationServiceServer) GetDayAvailability(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDayAvailability not implemented")
}

func (UnimplementedReservationServiceServer) mustEmbedUnimplementedReservationServiceServer() {}

func RegisterReservationServiceServer(s grpc.ServiceRegistrar, srv ReservationServiceServer) {
	s.RegisterService(&ReservationService_ServiceDesc, srv)
}

type unaryMethod func(ReservationServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(call unaryMethod, fullMethod string) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ReservationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ReservationServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ReservationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReservationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CheckAndPrice",
			Handler:    unaryHandler(ReservationServiceServer.CheckAndPrice, ReservationService_CheckAndPrice_FullMethodName),
		},
		{
			MethodName: "CreateReservation",
			Handler:    unaryHandler(ReservationServiceServer.CreateReservation, ReservationService_CreateReservation_FullMethodName),
		},
		{
			MethodName: "CancelReservation",
			Handler:    unaryHandler(ReservationServiceServer.CancelReservation, ReservationService_CancelReservation_FullMethodName),
		},
		{
			MethodName: "SubmitReview",
			Handler:    unaryHandler(ReservationServiceServer.SubmitReview, ReservationService_SubmitReview_FullMethodName),
		},
		{
			MethodName: "GetDayAvailability",
			Handler:    unaryHandler(ReservationServiceServer.GetDayAvailability, ReservationService_GetDayAvailability_FullMethodName),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "reservation/v1/reservation.proto",
}
