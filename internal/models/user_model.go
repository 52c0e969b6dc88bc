package models

import "time"

type User struct {
	ID        int64     `db:"id" json:"id"`
	BackendID string    `db:"backend_id" json:"backend_id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
