package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/taskquest/internal/domain/entity"
	repo "github.com/oksasatya/taskquest/internal/domain/repository"
	"github.com/oksasatya/taskquest/pkg/helpers"
)

type LoginResult struct {
	Token        string
	ProfilePhoto string
}

type RenameResult struct {
	Token    string
	Username string
}

// issue adds a fresh session to u and returns its token.
func (s *Service) issue(u *entity.User, now time.Time) (string, error) {
	tok, err := s.Tokens.Issue(now)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	if u.SessionTokens == nil {
		u.SessionTokens = map[string]entity.Session{}
	}
	u.SessionTokens[tok] = entity.Session{CreatedAt: now}
	return tok, nil
}

// resetSessions revokes every session of u and issues a single new one.
func (s *Service) resetSessions(u *entity.User, now time.Time) (string, []string, error) {
	old := make([]string, 0, len(u.SessionTokens))
	for t := range u.SessionTokens {
		old = append(old, t)
	}
	u.SessionTokens = map[string]entity.Session{}
	tok, err := s.issue(u, now)
	if err != nil {
		return "", nil, err
	}
	return tok, old, nil
}

// hashPassword digests plain, reporting over-long input as a client error.
func hashPassword(plain string) (string, error) {
	hash, err := helpers.HashPassword(plain)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// CreateUser registers username and returns the first session token.
func (s *Service) CreateUser(ctx context.Context, username, password string) (string, error) {
	if !helpers.ValidUsername(username) {
		return "", ErrInvalidUsername
	}
	s.locks.namespace.Lock()
	defer s.locks.namespace.Unlock()
	unlock := s.locks.lockUser(username)
	defer unlock()

	exists, err := s.Users.Exists(ctx, username)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrUsernameTaken
	}
	hash, err := hashPassword(password)
	if err != nil {
		return "", err
	}
	u := &entity.User{
		Username:      username,
		PasswordHash:  hash,
		ProfilePhoto:  entity.DefaultProfilePhoto,
		SessionTokens: map[string]entity.Session{},
	}
	tok, err := s.issue(u, s.now())
	if err != nil {
		return "", err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return "", err
	}
	s.tokens.add(tok, username)
	metricSignups.Add(1)
	s.syncIndex(ctx, u)
	s.Logger.WithField("username", username).Info("user created")
	return tok, nil
}

// Login verifies credentials and adds one session, purging expired ones.
// Sessions on other devices stay valid.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	unlock := s.locks.lockUser(username)
	defer unlock()

	u, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrIncorrectPassword
	}
	now := s.now()
	var expired []string
	for t, sess := range u.SessionTokens {
		if !sess.Live(now, s.Opts.SessionTTL) {
			expired = append(expired, t)
			delete(u.SessionTokens, t)
		}
	}
	tok, err := s.issue(u, now)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, err
	}
	s.tokens.remove(expired...)
	s.tokens.add(tok, username)
	metricLogins.Add(1)
	return &LoginResult{Token: tok, ProfilePhoto: u.Photo()}, nil
}

// Authenticate resolves a bearer token to its owner.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	now := s.now()
	if err := s.Tokens.Verify(token, now); err != nil {
		return "", ErrInvalidToken
	}
	username, ok := s.tokens.lookup(token)
	if !ok {
		return "", ErrInvalidToken
	}

	unlock := s.locks.lockUser(username)
	defer unlock()

	u, err := s.Users.Get(ctx, username)
	if errors.Is(err, repo.ErrUserNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	sess, ok := u.SessionTokens[token]
	if !ok || !sess.Live(now, s.Opts.SessionTTL) {
		return "", ErrInvalidToken
	}
	return username, nil
}

// Logout revokes exactly the presented token.
func (s *Service) Logout(ctx context.Context, username, token string) error {
	unlock := s.locks.lockUser(username)
	defer unlock()

	u, err := s.getUser(ctx, username)
	if err != nil {
		return err
	}
	if _, ok := u.SessionTokens[token]; ok {
		delete(u.SessionTokens, token)
		if err := s.Users.Save(ctx, u); err != nil {
			return err
		}
	}
	s.tokens.remove(token)
	return nil
}

// RenameUser moves the user's documents to newUsername and revokes every
// other session, returning the only valid token.
func (s *Service) RenameUser(ctx context.Context, username, newUsername, currentPassword string) (*RenameResult, error) {
	if !helpers.ValidUsername(newUsername) {
		return nil, ErrInvalidUsername
	}
	if newUsername == username {
		return nil, ErrSameUsername
	}
	s.locks.namespace.Lock()
	defer s.locks.namespace.Unlock()
	unlock := s.locks.lockUsers(username, newUsername)
	defer unlock()

	u, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, currentPassword) {
		return nil, ErrIncorrectPassword
	}
	taken, err := s.Users.Exists(ctx, newUsername)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	if err := s.Users.Rename(ctx, username, newUsername); err != nil {
		return nil, err
	}
	u.Username = newUsername
	tok, old, err := s.resetSessions(u, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		fields := logrus.Fields{"username": username, "new_username": newUsername}
		if rbErr := s.Users.Rename(ctx, newUsername, username); rbErr != nil {
			// Documents stay under newUsername with the previous sessions,
			// which no longer resolve through the index.
			helpers.LogError(s.Logger, "rename: rollback failed, documents left under new name", rbErr, fields)
			s.tokens.remove(old...)
			s.dropFromIndex(ctx, username)
			s.syncIndex(ctx, u)
			return nil, err
		}
		helpers.LogError(s.Logger, "rename: saving new session failed, rolled back", err, fields)
		return nil, err
	}
	s.tokens.replace(old, tok, newUsername)
	s.dropFromIndex(ctx, username)
	s.syncIndex(ctx, u)
	s.Logger.WithFields(logrus.Fields{"username": username, "new_username": newUsername}).Info("user renamed")
	return &RenameResult{Token: tok, Username: newUsername}, nil
}

// ChangePassword stores a new digest and revokes every other session.
func (s *Service) ChangePassword(ctx context.Context, username, newPassword string) (string, error) {
	unlock := s.locks.lockUser(username)
	defer unlock()

	u, err := s.getUser(ctx, username)
	if err != nil {
		return "", err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return "", err
	}
	u.PasswordHash = hash
	tok, old, err := s.resetSessions(u, s.now())
	if err != nil {
		return "", err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return "", err
	}
	s.tokens.replace(old, tok, username)
	return tok, nil
}

// RebuildTokenIndex loads every live session from storage. Called once at startup.
func (s *Service) RebuildTokenIndex(ctx context.Context) (int, error) {
	names, err := s.Users.ListUsernames(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, name := range names {
		name := name
		g.Go(func() error {
			unlock := s.locks.lockUser(name)
			defer unlock()
			u, err := s.Users.Get(gctx, name)
			if errors.Is(err, repo.ErrUserNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			for t, sess := range u.SessionTokens {
				if sess.Live(now, s.Opts.SessionTTL) {
					s.tokens.add(t, name)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return s.tokens.size(), nil
}
