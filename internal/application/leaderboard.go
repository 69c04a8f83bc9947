package application

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/oksasatya/taskquest/internal/domain/entity"
	repo "github.com/oksasatya/taskquest/internal/domain/repository"
)

// Leaderboard ranks every user by points, highest first, ties by username.
func (s *Service) Leaderboard(ctx context.Context) ([]entity.LeaderboardEntry, error) {
	names, err := s.Users.ListUsernames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.LeaderboardEntry, 0, len(names))
	for _, name := range names {
		e, ok, err := s.entry(ctx, name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b entity.LeaderboardEntry) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
	return out, nil
}

// PointsOnly is the leaderboard with identities stripped. It covers all users,
// not only the caller.
func (s *Service) PointsOnly(ctx context.Context) ([]entity.PointsEntry, error) {
	board, err := s.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.PointsEntry, len(board))
	for i, e := range board {
		out[i] = entity.PointsEntry{Points: e.Points}
	}
	return out, nil
}

func (s *Service) entry(ctx context.Context, name string) (entity.LeaderboardEntry, bool, error) {
	unlock := s.locks.lockUser(name)
	defer unlock()

	u, err := s.Users.Get(ctx, name)
	if errors.Is(err, repo.ErrUserNotFound) {
		return entity.LeaderboardEntry{}, false, nil
	}
	if err != nil {
		return entity.LeaderboardEntry{}, false, err
	}
	return entity.LeaderboardEntry{Username: name, Points: u.Points, ProfilePhoto: u.Photo()}, true, nil
}
