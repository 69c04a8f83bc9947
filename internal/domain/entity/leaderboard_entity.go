package entity

// LeaderboardEntry is the public projection of a user.
type LeaderboardEntry struct {
	Username     string `json:"username"`
	Points       int    `json:"points"`
	ProfilePhoto string `json:"profile_photo"`
}

// PointsEntry is a leaderboard entry stripped of identity.
type PointsEntry struct {
	Points int `json:"points"`
}
