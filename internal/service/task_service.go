package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"task-tracker/internal/model"
	"task-tracker/internal/repository"
)

const maxTitleLen = 255

// TaskInput represents data required to create or replace a task.
type TaskInput struct {
	Title       string
	Description string
	Status      model.Status
	Priority    model.Priority
	DueDate     *model.Date
}

func (in TaskInput) validate() error {
	if in.Title == "" {
		return ErrTitleRequired
	}
	if len(in.Title) > maxTitleLen {
		return ErrTitleTooLong
	}
	if in.Status != "" && !in.Status.Valid() {
		return ErrInvalidStatus
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// TaskService wraps task business rules: validation, defaults and owner
// scoping. Ownership always comes from the authenticated identity, never
// from the payload.
type TaskService struct {
	tasks *repository.TaskRepository
}

func NewTaskService(tasks *repository.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Create(ctx context.Context, ownerID uint, input TaskInput) (*model.Task, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	task := model.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		OwnerID:     ownerID,
	}
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns the owner's tasks, newest first. An empty status means no
// filter; anything else must be a known status.
func (s *TaskService) List(ctx context.Context, ownerID uint, status model.Status) ([]model.Task, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.tasks.ListByOwner(ctx, ownerID, status)
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID uint) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

// Update replaces the mutable fields of an owned task. CreatedAt keeps its
// original value; UpdatedAt is refreshed on save.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID uint, input TaskInput) (*model.Task, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	task, err := s.Get(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.DueDate = input.DueDate
	task.Status = input.Status
	task.Priority = input.Priority
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}

	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uint) error {
	deleted, err := s.tasks.Delete(ctx, ownerID, taskID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
