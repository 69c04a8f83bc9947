package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/taskquest/internal/domain/entity"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the per-user document operations.
type UserRepository interface {
	Exists(ctx context.Context, username string) (bool, error)
	// Create writes the metadata document and an empty task list.
	Create(ctx context.Context, u *entity.User) error
	Get(ctx context.Context, username string) (*entity.User, error)
	Save(ctx context.Context, u *entity.User) error
	Rename(ctx context.Context, username, newUsername string) error
	ListUsernames(ctx context.Context) ([]string, error)
}

// TaskRepository stores each user's full task list as one document.
type TaskRepository interface {
	ListTasks(ctx context.Context, username string) ([]entity.Task, error)
	SaveTasks(ctx context.Context, username string, tasks []entity.Task) error
}

// CommentRepository stores the shared comment list.
type CommentRepository interface {
	ListComments(ctx context.Context) ([]entity.Comment, error)
	SaveComments(ctx context.Context, comments []entity.Comment) error
}
