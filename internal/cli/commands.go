package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"

	"github.com/dtroode/taskmanager/internal/client"
	"github.com/dtroode/taskmanager/internal/controller"
	"github.com/dtroode/taskmanager/internal/model"
	"github.com/dtroode/taskmanager/internal/tasklist"
)

func newSignUpCommand(opts *globalOptions) *cobra.Command {
	var req model.SignUpRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := passwordOrPrompt(cmd, req.Password)
			if err != nil {
				return err
			}
			req.Password = password

			c, err := opts.connect()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := opts.withTimeout(cmd.Context())
			defer cancel()

			res, err := c.SignUp(ctx, req)
			if err != nil {
				return remoteFailure(err)
			}

			out := cmd.OutOrStdout()
			if res.VerificationSent {
				fmt.Fprintf(out, "Account created. Check %s for a verification link, then run `%s login`.\n", req.Email, appName)
				return nil
			}
			fmt.Fprintln(out, "Account created.")
			fmt.Fprintf(out, "warning: verification email was not sent: %s\n", res.VerificationError)
			fmt.Fprintf(out, "Run `%s resend %s` to try again, then `%s login`.\n", appName, req.Email, appName)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (read from stdin when empty)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	for _, name := range []string{"email", "first-name", "last-name"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newVerifyCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Confirm an email address with the token from the verification mail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.connect()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := opts.withTimeout(cmd.Context())
			defer cancel()

			if err := c.VerifyEmail(ctx, args[0]); err != nil {
				return remoteFailure(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Email verified.")
			return nil
		},
	}
}

func newResendCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resend <email>",
		Short: "Send the verification mail again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.connect()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := opts.withTimeout(cmd.Context())
			defer cancel()

			if err := c.ResendVerification(ctx, args[0]); err != nil {
				return remoteFailure(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "If %s has an unverified account, a new link is on its way.\n", args[0])
			return nil
		},
	}
}

func newLoginCommand(opts *globalOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := passwordOrPrompt(cmd, password)
			if err != nil {
				return err
			}

			c, err := opts.connect()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := opts.withTimeout(cmd.Context())
			defer cancel()

			session, err := c.Login(ctx, email, password)
			if err != nil {
				return remoteFailure(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", session.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.connect()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := opts.withTimeout(cmd.Context())
			defer cancel()

			if err := c.Logout(ctx); err != nil {
				opts.logger.Warn("taskctl: remote logout failed", "error", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newListCommand(opts *globalOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show your tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := tasklist.ParseFilter(filter)
			if err != nil {
				return fail(ExitUserError, "%w", err)
			}

			return opts.withTaskList(cmd, func(_ context.Context, ctl *controller.TaskList) error {
				ctl.SetFilter(f)
				printTasks(cmd.OutOrStdout(), ctl)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", string(model.TaskFilterAll), "all, completed or incomplete")

	return cmd
}

func newAddCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fail(ExitUserError, "task text is required")
			}

			return opts.withTaskList(cmd, func(ctx context.Context, ctl *controller.TaskList) error {
				ctl.Add(ctx, text)
				if msg := ctl.Err(); msg != "" {
					return fail(ExitBackendError, "%s", msg)
				}
				tasks := ctl.Tasks()
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", len(tasks), text)
				return nil
			})
		},
	}
}

func newDoneCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "done <ref>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a task between done and not done",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withTaskList(cmd, func(ctx context.Context, ctl *controller.TaskList) error {
				pos, task, err := resolveTask(ctl.Tasks(), args[0])
				if err != nil {
					return err
				}

				ctl.ToggleComplete(ctx, task.ID)
				if msg := ctl.Err(); msg != "" {
					return fail(ExitBackendError, "%s", msg)
				}

				state := "not done"
				if t, ok := tasklist.Find(ctl.Tasks(), task.ID); ok && t.Completed {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d is %s: %s\n", pos, state, task.Text)
				return nil
			})
		},
	}
}

func newEditCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <ref> <text...>",
		Short: "Change the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return fail(ExitUserError, "task text is required")
			}

			return opts.withTaskList(cmd, func(ctx context.Context, ctl *controller.TaskList) error {
				pos, task, err := resolveTask(ctl.Tasks(), args[0])
				if err != nil {
					return err
				}

				ctl.BeginEdit(task.ID)
				ctl.SetEditBuffer(text)
				ctl.CommitEdit(ctx)
				if msg := ctl.Err(); msg != "" {
					return fail(ExitBackendError, "%s", msg)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d: %s\n", pos, text)
				return nil
			})
		},
	}
}

func newRemoveCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withTaskList(cmd, func(ctx context.Context, ctl *controller.TaskList) error {
				pos, task, err := resolveTask(ctl.Tasks(), args[0])
				if err != nil {
					return err
				}

				ctl.Delete(ctx, task.ID)
				if msg := ctl.Err(); msg != "" {
					return fail(ExitBackendError, "%s", msg)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d: %s\n", pos, task.Text)
				return nil
			})
		},
	}
}

// withTaskList connects, loads the task list and hands it to fn.
func (o *globalOptions) withTaskList(cmd *cobra.Command, fn func(context.Context, *controller.TaskList) error) error {
	c, err := o.connect()
	if err != nil {
		return err
	}
	defer c.Close()

	if !c.Authenticated() {
		return fail(ExitAuthError, "not logged in, run `%s login`", appName)
	}

	ctx, cancel := o.withTimeout(cmd.Context())
	defer cancel()

	ctl := controller.NewTaskList(c)
	ctl.Load(ctx)
	if msg := ctl.Err(); msg != "" {
		if !c.Authenticated() {
			return fail(ExitAuthError, "session expired, run `%s login`", appName)
		}
		return fail(ExitBackendError, "%s", msg)
	}

	return fn(ctx, ctl)
}

// printTasks writes the visible tasks numbered by their position in the
// full list, so numbers stay valid across filters.
func printTasks(w io.Writer, ctl *controller.TaskList) {
	if name := ctl.DisplayName(); name != "" {
		fmt.Fprintf(w, "%s's tasks\n", name)
	}

	all := ctl.Tasks()
	visible := ctl.Visible()
	if len(visible) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}

	positions := make(map[string]int, len(all))
	for i, t := range all {
		positions[t.ID] = i + 1
	}

	for _, t := range visible {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "%4d  [%s] %s\n", positions[t.ID], mark, t.Text)
	}
}

// resolveTask accepts a 1-based position in the full list or a task ID.
func resolveTask(tasks []model.Task, ref string) (int, model.Task, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(tasks) {
			return 0, model.Task{}, fail(ExitUserError, "no task number %d", n)
		}
		return n, tasks[n-1], nil
	}

	for i, t := range tasks {
		if t.ID == ref {
			return i + 1, t, nil
		}
	}
	return 0, model.Task{}, fail(ExitUserError, "no task with id %q", ref)
}

// passwordOrPrompt returns flagValue or reads one line from stdin.
func passwordOrPrompt(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fail(ExitUserError, "read password: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fail(ExitUserError, "password is required")
	}
	return password, nil
}

// remoteFailure picks the exit code for an error returned by the server.
func remoteFailure(err error) error {
	var remote *client.RemoteError
	if !errors.As(err, &remote) {
		return &exitError{code: ExitBackendError, err: err}
	}

	switch remote.Code {
	case codes.Unauthenticated, codes.NotFound, codes.FailedPrecondition, codes.PermissionDenied:
		return &exitError{code: ExitAuthError, err: err}
	case codes.InvalidArgument, codes.AlreadyExists:
		return &exitError{code: ExitUserError, err: err}
	default:
		return &exitError{code: ExitBackendError, err: err}
	}
}
