package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskquest/internal/domain/entity"
	repo "github.com/oksasatya/taskquest/internal/domain/repository"
	"github.com/oksasatya/taskquest/pkg/helpers"
)

// Directory is the per-user document store plus the shared comment list.
type Directory interface {
	repo.UserRepository
	repo.TaskRepository
	repo.CommentRepository
}

// UserIndex mirrors public user entries into a search backend.
type UserIndex interface {
	Index(ctx context.Context, e entity.LeaderboardEntry) error
	Remove(ctx context.Context, username string) error
	Search(ctx context.Context, q string, size int) ([]entity.LeaderboardEntry, error)
}

// Options are the game rules; zero values fall back to the defaults.
type Options struct {
	SessionTTL     time.Duration
	MaxTasksPerDay int
	TaskPoints     int
	CommentTTL     time.Duration
	Location       *time.Location
}

func (o Options) withDefaults() Options {
	if o.SessionTTL <= 0 {
		o.SessionTTL = 7 * 24 * time.Hour
	}
	if o.MaxTasksPerDay <= 0 {
		o.MaxTasksPerDay = 6
	}
	if o.TaskPoints <= 0 {
		o.TaskPoints = 3
	}
	if o.CommentTTL <= 0 {
		o.CommentTTL = 12 * time.Hour
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

type Service struct {
	Users    repo.UserRepository
	Tasks    repo.TaskRepository
	Comments repo.CommentRepository
	Photos   repo.PhotoStore
	Tokens   *helpers.TokenManager
	Index    UserIndex
	Logger   *logrus.Logger
	Opts     Options
	Now      func() time.Time

	locks  *lockSet
	tokens *tokenIndex
}

// NewService wires the service; index may be nil when search is disabled.
func NewService(dir Directory, photos repo.PhotoStore, tokens *helpers.TokenManager, index UserIndex, logger *logrus.Logger, opts Options) *Service {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &Service{
		Users:    dir,
		Tasks:    dir,
		Comments: dir,
		Photos:   photos,
		Tokens:   tokens,
		Index:    index,
		Logger:   logger,
		Opts:     opts.withDefaults(),
		Now:      time.Now,
		locks:    newLockSet(),
		tokens:   newTokenIndex(),
	}
}

func (s *Service) now() time.Time {
	return s.Now()
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// getUser loads a user the caller has already locked.
func (s *Service) getUser(ctx context.Context, username string) (*entity.User, error) {
	if !helpers.ValidUsername(username) {
		return nil, ErrUserNotFound
	}
	u, err := s.Users.Get(ctx, username)
	if errors.Is(err, repo.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) syncIndex(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	e := entity.LeaderboardEntry{Username: u.Username, Points: u.Points, ProfilePhoto: u.Photo()}
	if err := s.Index.Index(ctx, e); err != nil {
		helpers.LogWarn(s.Logger, "user index update failed", err, logrus.Fields{"username": u.Username})
	}
}

func (s *Service) dropFromIndex(ctx context.Context, username string) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Remove(ctx, username); err != nil {
		helpers.LogWarn(s.Logger, "user index delete failed", err, logrus.Fields{"username": username})
	}
}
