package models

import "time"

type PasswordReset struct {
	UserID  string
	Token   string
	Expires time.Time
}
