package docstore

import (
	"context"
	"fmt"

	"github.com/oksasatya/taskquest/internal/domain/entity"
	"github.com/oksasatya/taskquest/internal/domain/repository"
)

const (
	metadataDoc = "metadata"
	tasksDoc    = "tasks"
	commentsKey = "comments"
)

// Directory maps each username to a prefix holding its metadata and tasks
// documents, plus one shared comments document at the root.
type Directory struct {
	store repository.BlobStore
}

func NewDirectory(store repository.BlobStore) *Directory {
	return &Directory{store: store}
}

func metadataKey(username string) string { return username + "/" + metadataDoc }
func tasksKey(username string) string    { return username + "/" + tasksDoc }

func (d *Directory) Exists(ctx context.Context, username string) (bool, error) {
	return d.store.Exists(ctx, username)
}

func (d *Directory) Create(ctx context.Context, u *entity.User) error {
	if err := d.store.Write(ctx, metadataKey(u.Username), u); err != nil {
		return fmt.Errorf("create user %s: %w", u.Username, err)
	}
	if err := d.store.Write(ctx, tasksKey(u.Username), []entity.Task{}); err != nil {
		return fmt.Errorf("create user %s: %w", u.Username, err)
	}
	return nil
}

func (d *Directory) Get(ctx context.Context, username string) (*entity.User, error) {
	u := &entity.User{}
	found, err := d.store.Read(ctx, metadataKey(username), u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, repository.ErrUserNotFound
	}
	u.Username = username
	if u.SessionTokens == nil {
		u.SessionTokens = map[string]entity.Session{}
	}
	return u, nil
}

func (d *Directory) Save(ctx context.Context, u *entity.User) error {
	return d.store.Write(ctx, metadataKey(u.Username), u)
}

func (d *Directory) Rename(ctx context.Context, username, newUsername string) error {
	return d.store.Move(ctx, username, newUsername)
}

func (d *Directory) ListUsernames(ctx context.Context) ([]string, error) {
	return d.store.Children(ctx, "")
}

func (d *Directory) ListTasks(ctx context.Context, username string) ([]entity.Task, error) {
	var tasks []entity.Task
	found, err := d.store.Read(ctx, tasksKey(username), &tasks)
	if err != nil {
		return nil, err
	}
	if !found || tasks == nil {
		return []entity.Task{}, nil
	}
	return tasks, nil
}

func (d *Directory) SaveTasks(ctx context.Context, username string, tasks []entity.Task) error {
	if tasks == nil {
		tasks = []entity.Task{}
	}
	return d.store.Write(ctx, tasksKey(username), tasks)
}

func (d *Directory) ListComments(ctx context.Context) ([]entity.Comment, error) {
	var comments []entity.Comment
	found, err := d.store.Read(ctx, commentsKey, &comments)
	if err != nil {
		return nil, err
	}
	if !found || comments == nil {
		return []entity.Comment{}, nil
	}
	return comments, nil
}

func (d *Directory) SaveComments(ctx context.Context, comments []entity.Comment) error {
	if comments == nil {
		comments = []entity.Comment{}
	}
	return d.store.Write(ctx, commentsKey, comments)
}

var (
	_ repository.UserRepository    = (*Directory)(nil)
	_ repository.TaskRepository    = (*Directory)(nil)
	_ repository.CommentRepository = (*Directory)(nil)
)
