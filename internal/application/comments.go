package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskquest/internal/domain/entity"
	repo "github.com/oksasatya/taskquest/internal/domain/repository"
	"github.com/oksasatya/taskquest/pkg/helpers"
)

// PostComment appends a comment to the shared board.
func (s *Service) PostComment(ctx context.Context, username, text string) (*entity.Comment, error) {
	s.locks.comments.Lock()
	defer s.locks.comments.Unlock()

	comments, err := s.Comments.ListComments(ctx)
	if err != nil {
		return nil, err
	}
	c := entity.Comment{ID: newID(), Username: username, Text: text, Timestamp: s.now().UTC()}
	comments = append(comments, c)
	if err := s.Comments.SaveComments(ctx, comments); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComments returns comments younger than the comment TTL, each with the
// poster's current photo. Older comments are dropped from storage.
func (s *Service) ListComments(ctx context.Context) ([]entity.CommentView, error) {
	s.locks.comments.Lock()
	defer s.locks.comments.Unlock()

	comments, err := s.Comments.ListComments(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	kept := make([]entity.Comment, 0, len(comments))
	for _, c := range comments {
		if now.Sub(c.Timestamp) < s.Opts.CommentTTL {
			kept = append(kept, c)
		}
	}
	if dropped := len(comments) - len(kept); dropped > 0 {
		if err := s.Comments.SaveComments(ctx, kept); err != nil {
			return nil, err
		}
		metricCommentsPruned.Add(int64(dropped))
	}

	photos := make(map[string]string)
	out := make([]entity.CommentView, len(kept))
	for i, c := range kept {
		p, ok := photos[c.Username]
		if !ok {
			p = s.photoOf(ctx, c.Username)
			photos[c.Username] = p
		}
		out[i] = entity.CommentView{Comment: c, ProfilePhoto: p}
	}
	return out, nil
}

// photoOf returns the user's current photo, or the default if it cannot be read.
func (s *Service) photoOf(ctx context.Context, username string) string {
	unlock := s.locks.lockUser(username)
	defer unlock()

	u, err := s.Users.Get(ctx, username)
	if err != nil {
		if !errors.Is(err, repo.ErrUserNotFound) {
			helpers.LogWarn(s.Logger, "comment photo lookup failed", err, logrus.Fields{"username": username})
		}
		return entity.DefaultProfilePhoto
	}
	return u.Photo()
}
