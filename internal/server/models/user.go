// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID              string
	Email           string
	FullName        string
	Username        string
	ProfileImageURL string
	PasswordHash    string
	DeviceToken     string
	CreatedAt       time.Time
}

// UserStats are derived from the follow graph and the posts table on read.
type UserStats struct {
	Followers int64
	Following int64
	Posts     int64
}
