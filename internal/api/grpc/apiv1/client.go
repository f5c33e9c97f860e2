package apiv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// AuthClient is the client API for the Auth service.
type AuthClient interface {
	SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*SignUpResponse, error)
	VerifyEmail(ctx context.Context, in *VerifyEmailRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ResendVerification(ctx context.Context, in *ResendVerificationRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*RefreshResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type authClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthClient(cc grpc.ClientConnInterface) AuthClient {
	return &authClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authClient) SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*SignUpResponse, error) {
	return invoke[SignUpResponse](ctx, c.cc, Auth_SignUp_FullMethodName, in, opts)
}

func (c *authClient) VerifyEmail(ctx context.Context, in *VerifyEmailRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, Auth_VerifyEmail_FullMethodName, in, opts)
}

func (c *authClient) ResendVerification(ctx context.Context, in *ResendVerificationRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, Auth_ResendVerification_FullMethodName, in, opts)
}

func (c *authClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, Auth_Login_FullMethodName, in, opts)
}

func (c *authClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*RefreshResponse, error) {
	return invoke[RefreshResponse](ctx, c.cc, Auth_Refresh_FullMethodName, in, opts)
}

func (c *authClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, Auth_Logout_FullMethodName, in, opts)
}

// TasksClient is the client API for the Tasks service.
type TasksClient interface {
	GetRecord(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*Record, error)
	ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error)
	AddTask(ctx context.Context, in *AddTaskRequest, opts ...grpc.CallOption) (*Record, error)
	DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*Record, error)
	ToggleTask(ctx context.Context, in *ToggleTaskRequest, opts ...grpc.CallOption) (*Record, error)
	UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*Record, error)
}

type tasksClient struct {
	cc grpc.ClientConnInterface
}

func NewTasksClient(cc grpc.ClientConnInterface) TasksClient {
	return &tasksClient{cc}
}

func (c *tasksClient) GetRecord(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*Record, error) {
	return invoke[Record](ctx, c.cc, Tasks_GetRecord_FullMethodName, in, opts)
}

func (c *tasksClient) ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	return invoke[ListTasksResponse](ctx, c.cc, Tasks_ListTasks_FullMethodName, in, opts)
}

func (c *tasksClient) AddTask(ctx context.Context, in *AddTaskRequest, opts ...grpc.CallOption) (*Record, error) {
	return invoke[Record](ctx, c.cc, Tasks_AddTask_FullMethodName, in, opts)
}

func (c *tasksClient) DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*Record, error) {
	return invoke[Record](ctx, c.cc, Tasks_DeleteTask_FullMethodName, in, opts)
}

func (c *tasksClient) ToggleTask(ctx context.Context, in *ToggleTaskRequest, opts ...grpc.CallOption) (*Record, error) {
	return invoke[Record](ctx, c.cc, Tasks_ToggleTask_FullMethodName, in, opts)
}

func (c *tasksClient) UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*Record, error) {
	return invoke[Record](ctx, c.cc, Tasks_UpdateTask_FullMethodName, in, opts)
}
