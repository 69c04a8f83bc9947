package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionLive(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Session{CreatedAt: created}
	ttl := 7 * 24 * time.Hour

	require.True(t, s.Live(created.Add(ttl-time.Second), ttl))
	require.False(t, s.Live(created.Add(ttl), ttl))
	require.False(t, s.Live(created.Add(ttl+time.Hour), ttl))
}

func TestUserDocumentShape(t *testing.T) {
	u := User{
		Username:      "alice",
		PasswordHash:  "digest",
		ProfilePhoto:  DefaultProfilePhoto,
		SessionTokens: map[string]Session{"tok": {CreatedAt: time.Unix(0, 0).UTC()}},
	}
	b, err := json.Marshal(u)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	require.NotContains(t, doc, "Username")
	require.Contains(t, doc, "password_hash")
	require.Contains(t, doc, "session_tokens")
	require.Equal(t, float64(0), doc["points"])
}

func TestUserPhotoDefault(t *testing.T) {
	u := &User{}
	require.Equal(t, DefaultProfilePhoto, u.Photo())
	u.ProfilePhoto = "profile_pictures/a.png"
	require.Equal(t, "profile_pictures/a.png", u.Photo())
}
