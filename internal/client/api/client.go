// Package api is the typed HTTP client for the RecruitIQ backend. All
// authenticated calls go through the transport interceptor chain; the
// refresh call deliberately bypasses it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/rashid4567/recruitiq/internal/client/session"
	"github.com/rashid4567/recruitiq/internal/client/transport"
	"github.com/rashid4567/recruitiq/internal/common"
)

// User is the backend's public account shape.
type User struct {
	ID               string      `json:"id"`
	Email            string      `json:"email"`
	FullName         string      `json:"fullName"`
	Role             common.Role `json:"role"`
	ProfileCompleted bool        `json:"profileCompleted"`
}

// Profile is the role-specific profile record.
type Profile struct {
	Headline  string `json:"headline"`
	Location  string `json:"location"`
	About     string `json:"about"`
	ResumeKey string `json:"resumeKey,omitempty"`
	Company   string `json:"company,omitempty"`
}

// Client wraps the backend endpoints. The refresh-token cookie lives in the
// shared jar; it never surfaces in Go code.
type Client struct {
	baseURL  string
	sessions *session.Manager

	// authed routes requests through the interceptor chain; plain skips it
	// so that the refresh call cannot recurse into its own retry logic.
	authed *http.Client
	plain  *http.Client
}

// NewClient constructs a Client over the session manager. Both underlying
// HTTP clients share one cookie jar so the refresh cookie set at login is
// available to the refresh call.
func NewClient(baseURL string, sessions *session.Manager) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &Client{
		baseURL:  baseURL,
		sessions: sessions,
		plain:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
	c.authed = &http.Client{
		Jar:       jar,
		Timeout:   10 * time.Second,
		Transport: transport.New(nil, sessions, c),
	}
	return c, nil
}

// Refresh implements transport.Refresher against POST /auth/refresh.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.plain.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp)
	}

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("refresh decode: %w", err)
	}
	return out.AccessToken, nil
}

// SendOtp starts registration for email, returning the challenge expiry.
func (c *Client) SendOtp(ctx context.Context, email string, role common.Role, fullName, password string) (time.Time, error) {
	var out struct {
		ExpiresAt time.Time `json:"expiresAt"`
	}
	err := c.post(ctx, c.plain, "/auth/send-otp", map[string]string{
		"email":    email,
		"role":     string(role),
		"fullName": fullName,
		"password": password,
	}, &out)
	if err != nil {
		return time.Time{}, err
	}
	return out.ExpiresAt, nil
}

type authResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// VerifyOtp completes registration and establishes the session.
func (c *Client) VerifyOtp(ctx context.Context, email, otp string) (*User, error) {
	var out authResponse
	err := c.post(ctx, c.plain, "/auth/verify-otp", map[string]string{
		"email": email,
		"otp":   otp,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.storeSession(out.AccessToken, out.User)
	return &out.User, nil
}

// Login authenticates with email and password and establishes the session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	err := c.post(ctx, c.plain, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.storeSession(out.AccessToken, out.User)
	return &out.User, nil
}

// GoogleLogin exchanges a Google ID-token credential for a session. A nil
// role on a first-time login fails with common.ErrRoleRequired; the caller
// should prompt for a role and retry with the identical credential.
func (c *Client) GoogleLogin(ctx context.Context, credential string, role *common.Role) (*User, error) {
	body := map[string]string{"credential": credential}
	if role != nil {
		body["role"] = string(*role)
	}
	var out struct {
		AccessToken      string      `json:"accessToken"`
		Role             common.Role `json:"role"`
		UserID           string      `json:"userId"`
		ProfileCompleted bool        `json:"profileCompleted"`
	}
	if err := c.post(ctx, c.plain, "/auth/google/login", body, &out); err != nil {
		return nil, err
	}
	user := User{ID: out.UserID, Role: out.Role, ProfileCompleted: out.ProfileCompleted}
	c.storeSession(out.AccessToken, user)
	return &user, nil
}

// Logout revokes the refresh token server-side and clears the session. The
// local clear is unconditional; a failed revoke call never blocks it.
func (c *Client) Logout(ctx context.Context) error {
	defer func() { _ = c.sessions.Clear() }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return nil
	}
	resp, err := c.plain.Do(req)
	if err != nil {
		return nil
	}
	resp.Body.Close()
	return nil
}

// GetProfile fetches the session user's profile through the interceptor
// chain.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/profile", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.authed.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var out Profile
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("profile decode: %w", err)
	}
	return &out, nil
}

// CompleteProfile submits the profile and flips the local completed flag.
func (c *Client) CompleteProfile(ctx context.Context, p *Profile) error {
	if err := c.post(ctx, c.authed, "/profile/complete", p, nil); err != nil {
		return err
	}
	return c.sessions.Update(func(s *session.Session) { s.ProfileCompleted = true })
}

func (c *Client) storeSession(accessToken string, user User) {
	_ = c.sessions.Set(session.Session{
		AccessToken:      accessToken,
		Role:             user.Role,
		UserID:           user.ID,
		ProfileCompleted: user.ProfileCompleted,
	})
}

func (c *Client) post(ctx context.Context, hc *http.Client, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// LinkedInLoginURL is the browser entry point of the LinkedIn flow.
func (c *Client) LinkedInLoginURL(role *common.Role) string {
	u := c.baseURL + "/auth/linkedin"
	if role != nil {
		u += "?role=" + url.QueryEscape(string(*role))
	}
	return u
}
