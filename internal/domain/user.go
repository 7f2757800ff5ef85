package domain

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
}
