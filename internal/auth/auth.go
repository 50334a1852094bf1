// Package auth проверяет bearer-токен через Supabase Auth и возвращает
// стабильный идентификатор пользователя. Дальше этому id доверяем полностью,
// авторизация сводится к фильтру записей по user_id.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Sahaji-2003/Food-Tracker/internal/config"
	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("auth: invalid or expired token")

type Client struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func NewClient(cfg config.SupabaseConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type userResponse struct {
	ID string `json:"id"`
}

func (c *Client) UserID(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("call supabase auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return uuid.Nil, ErrUnauthorized
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return uuid.Nil, fmt.Errorf("decode auth response: %w", err)
	}
	id, err := uuid.Parse(user.ID)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return id, nil
}
