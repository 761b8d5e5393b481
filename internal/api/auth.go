package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/nikolayk812/storefront/internal/apperr"
	"github.com/nikolayk812/storefront/internal/domain"
)

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
}

func (c *Client) Register(ctx context.Context, in domain.Registration) (domain.AuthResult, error) {
	body := registerRequest{
		Username:        in.Username(),
		Email:           in.Email,
		Password:        in.Password,
		PasswordConfirm: in.PasswordConfirm,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Phone:           in.Phone,
	}

	var res domain.AuthResult
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/register/", body, &res); err != nil {
		return domain.AuthResult{}, err
	}
	return res, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthResult, error) {
	body := domain.Credentials{Email: email, Password: password}

	var res domain.AuthResult
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login/", body, &res); err != nil {
		return domain.AuthResult{}, err
	}
	return res, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, http.MethodPost, "/auth/logout/", nil, nil)
}

func (c *Client) Me(ctx context.Context) (domain.UserProfile, error) {
	var user domain.UserProfile
	if err := c.getJSON(ctx, "/auth/users/me/", nil, &user); err != nil {
		return domain.UserProfile{}, err
	}
	return user, nil
}

// UpdateProfile sends only the non-empty fields, plus the picture when one is given, as a multipart form.
func (c *Client) UpdateProfile(ctx context.Context, in domain.ProfileUpdate) (domain.UserProfile, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := in.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.WriteField(name, fields[name]); err != nil {
			return domain.UserProfile{}, apperr.Wrap(fmt.Errorf("w.WriteField[%s]: %w", name, err))
		}
	}

	if in.Image != nil {
		if in.Image.Body == nil {
			return domain.UserProfile{}, apperr.ValidationErr("invalid input", map[string]string{"profile_image": "No file content."})
		}
		part, err := w.CreateFormFile("profile_image", in.Image.Filename)
		if err != nil {
			return domain.UserProfile{}, apperr.Wrap(fmt.Errorf("w.CreateFormFile: %w", err))
		}
		if _, err := io.Copy(part, in.Image.Body); err != nil {
			return domain.UserProfile{}, apperr.Wrap(fmt.Errorf("io.Copy: %w", err))
		}
	}

	if err := w.Close(); err != nil {
		return domain.UserProfile{}, apperr.Wrap(fmt.Errorf("w.Close: %w", err))
	}

	var user domain.UserProfile
	err := c.do(ctx, request{
		method:      http.MethodPatch,
		path:        "/auth/users/update_profile/",
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, &user)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return user, nil
}
