package api

import (
	"context"

	"task-tracker/internal/model"
	"task-tracker/internal/service"
)

// Credentials is the credential store and token issuer behind the auth endpoints.
type Credentials interface {
	Register(ctx context.Context, username, password string) (*service.Session, error)
	Login(ctx context.Context, username, password string) (*service.Session, error)
}

// Authenticator resolves presented bearer keys to users.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*model.User, error)
}

// Tasks is the owner-scoped task store behind the CRUD endpoints.
type Tasks interface {
	Create(ctx context.Context, ownerID uint, input service.TaskInput) (*model.Task, error)
	List(ctx context.Context, ownerID uint, status model.Status) ([]model.Task, error)
	Get(ctx context.Context, ownerID, taskID uint) (*model.Task, error)
	Update(ctx context.Context, ownerID, taskID uint, input service.TaskInput) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID uint) error
}

// Pinger reports storage liveness for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type taskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      model.Status   `json:"status"`
	Priority    model.Priority `json:"priority"`
	DueDate     *model.Date    `json:"due_date"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type registerResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type errorResponse struct {
	Error string `json:"error"`
}
