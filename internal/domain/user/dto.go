package user

import "time"

// UserResponse represents user data in API responses
type UserResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Role            Role       `json:"role"`
	DateOfBirth     string     `json:"date_of_birth"`
	ProfileInitial  string     `json:"profile_initial"`
	Age             int        `json:"age"`
	IsBirthdayToday bool       `json:"is_birthday_today"`
	IsActive        bool       `json:"is_active"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewUserResponse renders u with its derived fields computed for today.
func NewUserResponse(u User, today time.Time) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		DateOfBirth:     u.DateOfBirth.Format("2006-01-02"),
		ProfileInitial:  u.ProfileInitial(),
		Age:             u.Age(today),
		IsBirthdayToday: u.IsBirthdayOn(today),
		IsActive:        u.IsActive,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
	}
}

// UserSummary is the short form embedded in other resources.
type UserSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfileInitial string `json:"profile_initial"`
}

func NewUserSummary(u User) UserSummary {
	return UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfileInitial: u.ProfileInitial(),
	}
}
