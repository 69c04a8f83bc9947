package application

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskquest/internal/domain/entity"
	"github.com/oksasatya/taskquest/pkg/helpers"
)

var allowedPhotoExt = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true}

// photoExt returns the lower-cased extension of filename if it is an allowed image type.
func photoExt(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	return ext, allowedPhotoExt[ext]
}

// UploadProfilePhoto stores a new picture and points the user at it.
// The previous picture is removed afterwards on a best-effort basis.
func (s *Service) UploadProfilePhoto(ctx context.Context, username, filename, contentType string, r io.Reader) (string, error) {
	ext, ok := photoExt(filename)
	if !ok {
		return "", ErrFileTypeNotAllowed
	}

	unlock := s.locks.lockUser(username)
	defer unlock()

	u, err := s.getUser(ctx, username)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.%s", username, newID(), ext)
	ref, err := s.Photos.Save(ctx, name, contentType, r)
	if err != nil {
		return "", fmt.Errorf("save photo: %w", err)
	}
	old := u.ProfilePhoto
	u.ProfilePhoto = ref
	if err := s.Users.Save(ctx, u); err != nil {
		if derr := s.Photos.Delete(ctx, ref); derr != nil {
			helpers.LogWarn(s.Logger, "orphaned photo cleanup failed", derr, logrus.Fields{"username": username, "photo": ref})
		}
		return "", err
	}
	if old != "" && old != entity.DefaultProfilePhoto && old != ref {
		if err := s.Photos.Delete(ctx, old); err != nil {
			helpers.LogWarn(s.Logger, "old photo delete failed", err, logrus.Fields{"username": username, "photo": old})
		}
	}
	s.syncIndex(ctx, u)
	return ref, nil
}

// Profile returns the public view of one user.
func (s *Service) Profile(ctx context.Context, username string) (*entity.LeaderboardEntry, error) {
	unlock := s.locks.lockUser(username)
	defer unlock()

	u, err := s.getUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return &entity.LeaderboardEntry{Username: username, Points: u.Points, ProfilePhoto: u.Photo()}, nil
}
