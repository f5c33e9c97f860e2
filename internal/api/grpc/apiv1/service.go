package apiv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	AuthServiceName  = "taskmanager.v1.Auth"
	TasksServiceName = "taskmanager.v1.Tasks"
)

const (
	Auth_SignUp_FullMethodName             = "/taskmanager.v1.Auth/SignUp"
	Auth_VerifyEmail_FullMethodName        = "/taskmanager.v1.Auth/VerifyEmail"
	Auth_ResendVerification_FullMethodName = "/taskmanager.v1.Auth/ResendVerification"
	Auth_Login_FullMethodName              = "/taskmanager.v1.Auth/Login"
	Auth_Refresh_FullMethodName            = "/taskmanager.v1.Auth/Refresh"
	Auth_Logout_FullMethodName             = "/taskmanager.v1.Auth/Logout"

	Tasks_GetRecord_FullMethodName  = "/taskmanager.v1.Tasks/GetRecord"
	Tasks_ListTasks_FullMethodName  = "/taskmanager.v1.Tasks/ListTasks"
	Tasks_AddTask_FullMethodName    = "/taskmanager.v1.Tasks/AddTask"
	Tasks_DeleteTask_FullMethodName = "/taskmanager.v1.Tasks/DeleteTask"
	Tasks_ToggleTask_FullMethodName = "/taskmanager.v1.Tasks/ToggleTask"
	Tasks_UpdateTask_FullMethodName = "/taskmanager.v1.Tasks/UpdateTask"
)

// AuthServer is the server API for the Auth service.
type AuthServer interface {
	SignUp(context.Context, *SignUpRequest) (*SignUpResponse, error)
	VerifyEmail(context.Context, *VerifyEmailRequest) (*emptypb.Empty, error)
	ResendVerification(context.Context, *ResendVerificationRequest) (*emptypb.Empty, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Refresh(context.Context, *RefreshRequest) (*RefreshResponse, error)
	Logout(context.Context, *LogoutRequest) (*emptypb.Empty, error)
}

// UnimplementedAuthServer can be embedded to have forward compatible implementations.
type UnimplementedAuthServer struct{}

func (UnimplementedAuthServer) SignUp(context.Context, *SignUpRequest) (*SignUpResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SignUp not implemented")
}
func (UnimplementedAuthServer) VerifyEmail(context.Context, *VerifyEmailRequest) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyEmail not implemented")
}
func (UnimplementedAuthServer) ResendVerification(context.Context, *ResendVerificationRequest) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ResendVerification not implemented")
}
func (UnimplementedAuthServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedAuthServer) Refresh(context.Context, *RefreshRequest) (*RefreshResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}
func (UnimplementedAuthServer) Logout(context.Context, *LogoutRequest) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}

// TasksServer is the server API for the Tasks service.
type TasksServer interface {
	GetRecord(context.Context, *emptypb.Empty) (*Record, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	AddTask(context.Context, *AddTaskRequest) (*Record, error)
	DeleteTask(context.Context, *DeleteTaskRequest) (*Record, error)
	ToggleTask(context.Context, *ToggleTaskRequest) (*Record, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*Record, error)
}

// UnimplementedTasksServer can be embedded to have forward compatible implementations.
type UnimplementedTasksServer struct{}

func (UnimplementedTasksServer) GetRecord(context.Context, *emptypb.Empty) (*Record, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRecord not implemented")
}
func (UnimplementedTasksServer) ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTasks not implemented")
}
func (UnimplementedTasksServer) AddTask(context.Context, *AddTaskRequest) (*Record, error) {
	return nil, status.Error(codes.Unimplemented, "method AddTask not implemented")
}
func (UnimplementedTasksServer) DeleteTask(context.Context, *DeleteTaskRequest) (*Record, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteTask not implemented")
}
func (UnimplementedTasksServer) ToggleTask(context.Context, *ToggleTaskRequest) (*Record, error) {
	return nil, status.Error(codes.Unimplemented, "method ToggleTask not implemented")
}
func (UnimplementedTasksServer) UpdateTask(context.Context, *UpdateTaskRequest) (*Record, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateTask not implemented")
}

// unary adapts a typed server method to a grpc.MethodHandler.
func unary[S any, Req any, Resp any](fullMethod string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var Auth_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: unary(Auth_SignUp_FullMethodName, AuthServer.SignUp)},
		{MethodName: "VerifyEmail", Handler: unary(Auth_VerifyEmail_FullMethodName, AuthServer.VerifyEmail)},
		{MethodName: "ResendVerification", Handler: unary(Auth_ResendVerification_FullMethodName, AuthServer.ResendVerification)},
		{MethodName: "Login", Handler: unary(Auth_Login_FullMethodName, AuthServer.Login)},
		{MethodName: "Refresh", Handler: unary(Auth_Refresh_FullMethodName, AuthServer.Refresh)},
		{MethodName: "Logout", Handler: unary(Auth_Logout_FullMethodName, AuthServer.Logout)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "taskmanager/v1/auth",
}

var Tasks_ServiceDesc = grpc.ServiceDesc{
	ServiceName: TasksServiceName,
	HandlerType: (*TasksServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetRecord", Handler: unary(Tasks_GetRecord_FullMethodName, TasksServer.GetRecord)},
		{MethodName: "ListTasks", Handler: unary(Tasks_ListTasks_FullMethodName, TasksServer.ListTasks)},
		{MethodName: "AddTask", Handler: unary(Tasks_AddTask_FullMethodName, TasksServer.AddTask)},
		{MethodName: "DeleteTask", Handler: unary(Tasks_DeleteTask_FullMethodName, TasksServer.DeleteTask)},
		{MethodName: "ToggleTask", Handler: unary(Tasks_ToggleTask_FullMethodName, TasksServer.ToggleTask)},
		{MethodName: "UpdateTask", Handler: unary(Tasks_UpdateTask_FullMethodName, TasksServer.UpdateTask)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "taskmanager/v1/tasks",
}

func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&Auth_ServiceDesc, srv)
}

func RegisterTasksServer(s grpc.ServiceRegistrar, srv TasksServer) {
	s.RegisterService(&Tasks_ServiceDesc, srv)
}
