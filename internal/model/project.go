package model

import "time"

// ProjectRetention is how long a generated project stays available
// after creation.
const ProjectRetention = time.Hour

// Project is one successful generation result. Projects are written
// once and never updated; they age out of listings by expiring rather
// than being deleted.
type Project struct {
	ID           string         `db:"id" json:"id"`
	UserID       string         `db:"user_id" json:"user_id"`
	Type         GenerationKind `db:"type" json:"type"`
	Prompt       string         `db:"prompt" json:"prompt"`
	URL          string         `db:"url" json:"url"`
	ThumbnailURL string         `db:"thumbnail_url" json:"thumbnail_url"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	ExpiresAt    time.Time      `db:"expires_at" json:"expires_at"`
}

// Active reports whether the project should still appear in listings.
func (p *Project) Active(now time.Time) bool {
	return p.ExpiresAt.After(now)
}

// RemainingMinutes returns the project's remaining lifetime in whole
// minutes, never negative.
func (p *Project) RemainingMinutes(now time.Time) int {
	if !p.ExpiresAt.After(now) {
		return 0
	}
	return int(p.ExpiresAt.Sub(now).Round(time.Minute) / time.Minute)
}
