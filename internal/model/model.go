package model

import "time"

type User struct {
	ID               string
	UserName         string
	FirstName        string
	LastName         string
	UserType         string
	JobProfile       *string
	Email            string
	PasswordHash     string
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type AttendanceRecord struct {
	ID         string
	UserID     string
	Day        time.Time
	LoginDone  bool
	LoginTime  time.Time
	LogoutDone bool
	LogoutTime *time.Time
	CreatedAt  time.Time
}

// AttendanceWithUser is a record joined with its owner's public profile,
// used by the admin reporting queries.
type AttendanceWithUser struct {
	Record AttendanceRecord
	User   User
}
