package domain

import "time"

type Account struct {
	ID        int64
	Name      string
	Email     string
	Password  string // Argon2id hash, never the clear text
	CreatedAt time.Time
	UpdatedAt time.Time
}
