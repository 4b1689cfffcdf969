// Package api is a typed HTTP client for the fitlog server. Every call takes a
// context and, for authenticated routes, the bearer token to present.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vedran77/fitlog/internal/domain"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// ValidationError carries the field errors of a rejected registration.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// UserInfo is the identity-introspection response.
type UserInfo struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Register(ctx context.Context, username, displayName, password string) error {
	body := map[string]string{
		"username":     username,
		"display_name": displayName,
		"password":     password,
	}
	resp, err := c.do(ctx, http.MethodPost, "/register", "", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return decodeValidationError(resp)
	default:
		return unexpectedStatus(resp)
	}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	resp, err := c.do(ctx, http.MethodPost, "/login", "", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var token string
		if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
			return "", fmt.Errorf("decoding token: %w", err)
		}
		return token, nil
	case http.StatusUnauthorized:
		return "", ErrUnauthorized
	default:
		return "", unexpectedStatus(resp)
	}
}

func (c *Client) UserInfo(ctx context.Context, token string) (*UserInfo, error) {
	resp, err := c.do(ctx, http.MethodGet, "/userinfo", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding user info: %w", err)
	}
	return &info, nil
}

func (c *Client) ListRecords(ctx context.Context, token string) ([]domain.WorkoutRecord, error) {
	resp, err := c.do(ctx, http.MethodGet, "/workoutrecords", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var records []domain.WorkoutRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	return records, nil
}

func (c *Client) GetRecord(ctx context.Context, token string, id int64) (*domain.WorkoutRecord, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/workoutrecords/%d", id), token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var rec domain.WorkoutRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &rec, nil
}

func (c *Client) CreateRecord(ctx context.Context, token, description string) (*domain.WorkoutRecord, error) {
	body := map[string]string{"description": description}
	resp, err := c.do(ctx, http.MethodPost, "/workoutrecords", token, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var rec domain.WorkoutRecord
		if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		return &rec, nil
	case http.StatusBadRequest:
		return nil, decodeValidationError(resp)
	default:
		return nil, statusError(resp)
	}
}

func (c *Client) UpdateRecord(ctx context.Context, token string, id int64, description string) error {
	body := map[string]string{"description": description}
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/workoutrecords/%d", id), token, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return statusError(resp)
	}
	return nil
}

func (c *Client) DeleteRecord(ctx context.Context, token string, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/workoutrecords/%d", id), token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return statusError(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.http.Do(req)
}

func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return unexpectedStatus(resp)
	}
}

func unexpectedStatus(resp *http.Response) error {
	return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, resp.Request.URL.Path)
}

func decodeValidationError(resp *http.Response) error {
	var body struct {
		Error struct {
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding validation errors: %w", err)
	}
	return &ValidationError{Fields: body.Error.Fields}
}
