package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/service"
)

// SessionKey is where the login cookie is kept in the session store.
const SessionKey = "session.cookie"

type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Login opens a session. Wrong credentials return a user error wrapping
// common.ErrUnauthorized.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp successResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if errors.Is(err, common.ErrUnauthorized) || (err == nil && !resp.Success) {
		return common.NewUserError("Usuário ou senha inválidos.", fmt.Errorf("login as %q: %w", username, common.ErrUnauthorized))
	}
	if err != nil {
		return err
	}
	return c.SaveSession(ctx)
}

// Logout closes the session on the backend and forgets the saved cookie.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil)
	if err != nil && !errors.Is(err, common.ErrUnauthorized) {
		return err
	}
	return c.forgetSession(ctx)
}

// CheckAuth asks the backend who the current session belongs to.
func (c *Client) CheckAuth(ctx context.Context) (service.AuthStatus, error) {
	var status service.AuthStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/check_auth", nil, &status); err != nil {
		return service.AuthStatus{}, err
	}
	return status, nil
}

// RestoreSession loads a saved login cookie into the client. Having none
// saved is not an error.
func (c *Client) RestoreSession(ctx context.Context) error {
	if c.sessions == nil {
		return nil
	}

	raw, err := c.sessions.Get(ctx, SessionKey)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read saved session: %w", err)
	}

	var saved []savedCookie
	if err := json.Unmarshal(raw, &saved); err != nil {
		common.LogWarn("Ignoring corrupt saved session", common.Fields{"error": err.Error()})
		return nil
	}

	cookies := make([]*http.Cookie, 0, len(saved))
	for _, sc := range saved {
		cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value, Path: "/"})
	}
	c.jar.SetCookies(c.baseURL, cookies)
	return nil
}

// SaveSession stores the cookies the backend has set.
func (c *Client) SaveSession(ctx context.Context) error {
	if c.sessions == nil {
		return nil
	}

	cookies := c.jar.Cookies(c.baseURL)
	saved := make([]savedCookie, 0, len(cookies))
	for _, ck := range cookies {
		saved = append(saved, savedCookie{Name: ck.Name, Value: ck.Value})
	}

	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := c.sessions.Set(ctx, SessionKey, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (c *Client) forgetSession(ctx context.Context) error {
	if c.sessions == nil {
		return nil
	}
	if err := c.sessions.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("failed to clear saved session: %w", err)
	}
	return nil
}
