package user

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type Role string

const (
	RoleEmployee Role = "employee" // Checks in, reports, works on tasks
	RoleManager  Role = "manager"  // Reviews reports, assigns tasks, sees the team
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	DateOfBirth  time.Time
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsManager checks if user is a manager
func (u User) IsManager() bool {
	return u.Role == RoleManager
}

// IsEmployee checks if user is a regular employee
func (u User) IsEmployee() bool {
	return u.Role == RoleEmployee
}

// ProfileInitial is the upper-cased first letter of the name.
func (u User) ProfileInitial() string {
	r, size := utf8.DecodeRuneInString(strings.TrimSpace(u.Name))
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Age in whole years on the given day.
func (u User) Age(today time.Time) int {
	age := today.Year() - u.DateOfBirth.Year()
	if today.Month() < u.DateOfBirth.Month() ||
		(today.Month() == u.DateOfBirth.Month() && today.Day() < u.DateOfBirth.Day()) {
		age--
	}
	return age
}

// IsBirthdayOn matches month and day only.
func (u User) IsBirthdayOn(day time.Time) bool {
	return u.DateOfBirth.Month() == day.Month() && u.DateOfBirth.Day() == day.Day()
}
