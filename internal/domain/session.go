package domain

import (
	"io"
	"path/filepath"
	"strings"
	"time"
)

type UserProfile struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Phone           string    `json:"phone"`
	ProfileImageURL string    `json:"profile_image"`
	DateJoined      time.Time `json:"date_joined"`
}

// DisplayName is what the navigation bar shows for the signed-in user.
func (u UserProfile) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// Session is the identity and credential held by this client.
// Token and User are either both set or both empty.
type Session struct {
	Token string
	User  *UserProfile
}

func (s Session) Active() bool {
	return s.Token != "" && s.User != nil
}

type AuthResult struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Phone           string `json:"phone"`
}

// Username is derived from the local part of the e-mail address.
func (r Registration) Username() string {
	local, _, _ := strings.Cut(r.Email, "@")
	return local
}

type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string `validate:"omitempty,email"`
	Phone     string
	Address   string
	City      string
	State     string
	ZipCode   string
	Country   string
	Image     *ImageUpload
}

// Fields returns the non-empty text fields keyed by their form names.
func (p ProfileUpdate) Fields() map[string]string {
	all := map[string]string{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"email":      p.Email,
		"phone":      p.Phone,
		"address":    p.Address,
		"city":       p.City,
		"state":      p.State,
		"zip_code":   p.ZipCode,
		"country":    p.Country,
	}

	out := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// MaxImageSize is the largest profile picture the backend accepts.
const MaxImageSize = 5 << 20

type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func (i ImageUpload) HasAllowedExtension() bool {
	return imageExtensions[strings.ToLower(filepath.Ext(i.Filename))]
}
