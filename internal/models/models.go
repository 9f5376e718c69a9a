// Package models holds the persistent entities of the booking API.
package models

import "time"

// Role identifiers. Stored as plain integers in the roles table; the
// typed view of these lives in internal/authz.
type Role struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
}

// User is an account. WarningCount and Active are only mutated through
// the moderation state machine or an explicit admin toggle.
type User struct {
	ID                 int64     `gorm:"primaryKey" json:"id"`
	Name               string    `json:"name"`
	Surname            string    `json:"surname"`
	ImagePath          *string   `json:"image_path"`
	WarningCount       int       `json:"warning_count"`
	Active             bool      `json:"active"`
	Warning1           *string   `json:"warning1"`
	Warning2           *string   `json:"warning2"`
	Email              string    `gorm:"uniqueIndex" json:"email"`
	Password           string    `json:"-"`
	PasswordResetToken *string   `json:"-"`
	RoleID             int64     `json:"role_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Floor struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
}

type Sport struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
}

// Court is a bookable resource referencing a floor type and a sport.
type Court struct {
	ID      int64   `gorm:"primaryKey" json:"id"`
	Name    string  `json:"name"`
	FloorID int64   `json:"floor_id"`
	SportID int64   `json:"sport_id"`
	Image   *string `json:"image"`
}

// Comment is attached to a court by a user. Like distinguishes a like
// from a dislike; aggregate counts per court are derived from it.
type Comment struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Text      string    `json:"text"`
	Like      bool      `json:"like"`
	UserID    int64     `json:"user_id"`
	CourtID   int64     `json:"court_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reservation carries exactly one booking mode: a waitlist number, or a
// start/end time pair. Times are kept as the free-form strings callers
// send; the admission rule in internal/booking enforces the exclusivity.
type Reservation struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	StartTime      *string   `json:"start_time"`
	EndTime        *string   `json:"end_time"`
	WaitlistNumber *int64    `json:"waitlist_number"`
	CourtID        int64     `json:"court_id"`
	UserID         int64     `json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
