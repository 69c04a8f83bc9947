package application

import (
	"context"
	"strings"

	"github.com/oksasatya/taskquest/internal/domain/entity"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// SearchUsers finds users whose name starts with q. Without a search
// backend it returns an empty list.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]entity.LeaderboardEntry, error) {
	q = strings.TrimSpace(q)
	if s.Index == nil || q == "" {
		return []entity.LeaderboardEntry{}, nil
	}
	switch {
	case size <= 0:
		size = defaultSearchSize
	case size > maxSearchSize:
		size = maxSearchSize
	}
	res, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []entity.LeaderboardEntry{}
	}
	return res, nil
}
