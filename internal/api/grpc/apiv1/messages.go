package apiv1

type Task struct {
	Id        string `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

type Record struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Tasks     []*Task `json:"tasks"`
	Version   int64   `json:"version"`
}

type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type SignUpResponse struct {
	UserId            string `json:"userId"`
	VerificationSent  bool   `json:"verificationSent"`
	VerificationError string `json:"verificationError,omitempty"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Tasks        []*Task `json:"tasks"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ListTasksRequest struct {
	Filter string `json:"filter,omitempty"`
}

type ListTasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

type AddTaskRequest struct {
	Task string `json:"task"`
}

type DeleteTaskRequest struct {
	Id string `json:"id"`
}

type ToggleTaskRequest struct {
	Id string `json:"id"`
}

type UpdateTaskRequest struct {
	Id   string `json:"id"`
	Task string `json:"task"`
}
