// Package client talks to the taskmanager gRPC API and keeps the CLI session.
package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dtroode/taskmanager/internal/api/grpc/apiv1"
	"github.com/dtroode/taskmanager/internal/model"
)

// Options configure the connection to the server.
type Options struct {
	Address     string
	UseTLS      bool
	DialOptions []grpc.DialOption
}

// Client is a session-aware API client.
type Client struct {
	conn     *grpc.ClientConn
	auth     apiv1.AuthClient
	tasks    apiv1.TasksClient
	sessions *SessionStore
	session  *Session
	address  string
}

// New connects to the server. A previously saved session is picked up
// from sessions when it was created against the same address.
func New(opts Options, sessions *SessionStore) (*Client, error) {
	creds := insecure.NewCredentials()
	if opts.UseTLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, opts.DialOptions...)
	conn, err := grpc.NewClient(opts.Address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", opts.Address, err)
	}

	c := &Client{
		conn:     conn,
		auth:     apiv1.NewAuthClient(conn),
		tasks:    apiv1.NewTasksClient(conn),
		sessions: sessions,
		address:  opts.Address,
	}

	session, err := sessions.Load()
	switch {
	case err == nil && session.Server == opts.Address:
		c.session = &session
	case err == nil, errors.Is(err, ErrNoSession):
	default:
		conn.Close()
		return nil, err
	}

	return c, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Authenticated reports whether a session is available.
func (c *Client) Authenticated() bool {
	return c.session != nil
}

// Session returns the current session, if any.
func (c *Client) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

func (c *Client) SignUp(ctx context.Context, req model.SignUpRequest) (model.SignUpResult, error) {
	resp, err := c.auth.SignUp(ctx, &apiv1.SignUpRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return model.SignUpResult{}, fromStatus(err)
	}

	return model.SignUpResult{
		VerificationSent:  resp.VerificationSent,
		VerificationError: resp.VerificationError,
	}, nil
}

func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	_, err := c.auth.VerifyEmail(ctx, &apiv1.VerifyEmailRequest{Token: token})
	return fromStatus(err)
}

func (c *Client) ResendVerification(ctx context.Context, email string) error {
	_, err := c.auth.ResendVerification(ctx, &apiv1.ResendVerificationRequest{Email: email})
	return fromStatus(err)
}

// Login opens a session and saves it.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	resp, err := c.auth.Login(ctx, &apiv1.LoginRequest{Email: email, Password: password})
	if err != nil {
		return Session{}, fromStatus(err)
	}

	session := Session{
		Server:       c.address,
		Email:        email,
		FirstName:    resp.FirstName,
		LastName:     resp.LastName,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if err := c.sessions.Save(session); err != nil {
		return Session{}, err
	}
	c.session = &session

	return session, nil
}

// Logout revokes the refresh token and forgets the session locally even
// when the server is unreachable.
func (c *Client) Logout(ctx context.Context) error {
	var remoteErr error
	if c.session != nil && c.session.RefreshToken != "" {
		_, err := c.auth.Logout(ctx, &apiv1.LogoutRequest{RefreshToken: c.session.RefreshToken})
		if err != nil && !IsUnauthenticated(fromStatus(err)) {
			remoteErr = fromStatus(err)
		}
	}
	c.session = nil

	if err := c.sessions.Clear(); err != nil {
		return err
	}
	return remoteErr
}

func (c *Client) GetRecord(ctx context.Context) (model.UserRecord, error) {
	return c.record(ctx, func(ctx context.Context) (*apiv1.Record, error) {
		return c.tasks.GetRecord(ctx, &emptypb.Empty{})
	})
}

func (c *Client) AddTask(ctx context.Context, text string) (model.UserRecord, error) {
	return c.record(ctx, func(ctx context.Context) (*apiv1.Record, error) {
		return c.tasks.AddTask(ctx, &apiv1.AddTaskRequest{Task: text})
	})
}

func (c *Client) DeleteTask(ctx context.Context, id string) (model.UserRecord, error) {
	return c.record(ctx, func(ctx context.Context) (*apiv1.Record, error) {
		return c.tasks.DeleteTask(ctx, &apiv1.DeleteTaskRequest{Id: id})
	})
}

func (c *Client) ToggleTask(ctx context.Context, id string) (model.UserRecord, error) {
	return c.record(ctx, func(ctx context.Context) (*apiv1.Record, error) {
		return c.tasks.ToggleTask(ctx, &apiv1.ToggleTaskRequest{Id: id})
	})
}

func (c *Client) UpdateTask(ctx context.Context, id, text string) (model.UserRecord, error) {
	return c.record(ctx, func(ctx context.Context) (*apiv1.Record, error) {
		return c.tasks.UpdateTask(ctx, &apiv1.UpdateTaskRequest{Id: id, Task: text})
	})
}

// record runs an authenticated call. An expired access token is refreshed
// once and the call retried. A rejected refresh token ends the session.
func (c *Client) record(ctx context.Context, call func(context.Context) (*apiv1.Record, error)) (model.UserRecord, error) {
	if c.session == nil {
		return model.UserRecord{}, ErrNoSession
	}

	resp, err := call(c.authorize(ctx))
	err = fromStatus(err)
	if IsUnauthenticated(err) && c.session.RefreshToken != "" {
		if refreshErr := c.refresh(ctx); refreshErr != nil {
			if !IsUnauthenticated(refreshErr) {
				return model.UserRecord{}, err
			}
			if clearErr := c.forget(); clearErr != nil {
				return model.UserRecord{}, clearErr
			}
			return model.UserRecord{}, fmt.Errorf("%w: %s", ErrNoSession, refreshErr)
		}
		resp, err = call(c.authorize(ctx))
		err = fromStatus(err)
	}
	if err != nil {
		return model.UserRecord{}, err
	}

	return fromRecord(resp), nil
}

func (c *Client) refresh(ctx context.Context) error {
	resp, err := c.auth.Refresh(ctx, &apiv1.RefreshRequest{RefreshToken: c.session.RefreshToken})
	if err != nil {
		return fromStatus(err)
	}

	session := *c.session
	session.AccessToken = resp.AccessToken
	session.RefreshToken = resp.RefreshToken
	if err := c.sessions.Save(session); err != nil {
		return err
	}
	c.session = &session
	return nil
}

func (c *Client) forget() error {
	c.session = nil
	return c.sessions.Clear()
}

func (c *Client) authorize(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.session.AccessToken)
}

func fromRecord(r *apiv1.Record) model.UserRecord {
	tasks := make([]model.Task, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		if t == nil {
			continue
		}
		tasks = append(tasks, model.Task{ID: t.Id, Text: t.Task, Completed: t.Completed})
	}
	return model.UserRecord{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Tasks:     tasks,
		Version:   r.Version,
	}
}
