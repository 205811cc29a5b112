package user

import (
	"encoding/json"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dateutil"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

type User struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Params carries the fields of a new user. Zero timestamps default to the
// time New is called.
type Params struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(p Params) User {
	now := time.Now().UTC()
	u := User{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	return u
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// View is the wire form of a User.
type View struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) View() View {
	return View{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.View())
}

// Profile holds the optional details of a user.
type Profile struct {
	UserID      int64
	Bio         string
	AvatarURL   string
	PhoneNumber string
	DateOfBirth *time.Time
	Location    string
}

// Validate checks the avatar URL syntax when one is set.
func (p Profile) Validate() error {
	if p.AvatarURL == "" {
		return nil
	}
	return validation.URL("avatar_url", p.AvatarURL)
}

type ProfileView struct {
	UserID      int64   `json:"user_id"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	PhoneNumber *string `json:"phone_number"`
	DateOfBirth *string `json:"date_of_birth"`
	Location    *string `json:"location"`
}

func (p Profile) View() ProfileView {
	v := ProfileView{
		UserID:      p.UserID,
		Bio:         nullable(p.Bio),
		AvatarURL:   nullable(p.AvatarURL),
		PhoneNumber: nullable(p.PhoneNumber),
		Location:    nullable(p.Location),
	}
	if p.DateOfBirth != nil {
		v.DateOfBirth = nullable(dateutil.Format(*p.DateOfBirth, dateutil.DateLayout))
	}
	return v
}

func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.View())
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
