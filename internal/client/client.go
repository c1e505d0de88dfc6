// Package client is a Go consumer of the marketplace API: it holds the
// session token, wraps the REST endpoints, and polls open conversations for
// new messages.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/internal/models"
)

// APIError is a non-2xx response decoded from the API's error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Message)
}

type Session struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client

	sessionPath string
	session     Session
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:     baseURL,
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		sessionPath: defaultSessionPath(),
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "market", "session.json")
}

// LoadSession restores the persisted credential, if any.
func (c *Client) LoadSession() error {
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, &c.session)
}

func (c *Client) saveSession() error {
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0o600)
}

// Logout drops the persisted credential.
func (c *Client) Logout() error {
	c.session = Session{}
	err := os.Remove(c.sessionPath)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// CurrentUser reports the logged-in profile, if a session is loaded.
func (c *Client) CurrentUser() (models.PublicUser, bool) {
	return c.session.User, c.session.Token != ""
}

type authResponse struct {
	User  models.PublicUser `json:"user"`
	Token string            `json:"token"`
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*models.PublicUser, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.session = Session{Token: resp.Token, User: resp.User}
	if err := c.saveSession(); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.PublicUser, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.session = Session{Token: resp.Token, User: resp.User}
	if err := c.saveSession(); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var resp dataEnvelope[[]models.Product]
	if err := c.do(ctx, http.MethodGet, "/api/v1/products", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) Product(ctx context.Context, id uint) (*models.Product, error) {
	var resp dataEnvelope[models.Product]
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) CreateProduct(ctx context.Context, name, productType string, price float64) (*models.Product, error) {
	var resp dataEnvelope[models.Product]
	err := c.do(ctx, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":  name,
		"type":  productType,
		"price": price,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// ProductPatch mirrors the partial-update request; nil fields are left out of
// the body and keep their server-side value.
type ProductPatch struct {
	Name  *string  `json:"name,omitempty"`
	Type  *string  `json:"type,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	var resp dataEnvelope[models.Product]
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", id), patch, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", id), nil, nil)
}

func (c *Client) OpenConversation(ctx context.Context, receiverID uint) (*models.Conversation, error) {
	var resp dataEnvelope[models.Conversation]
	err := c.do(ctx, http.MethodPost, "/api/v1/chat/conversations", map[string]uint{
		"receiver_id": receiverID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) Conversations(ctx context.Context) ([]models.ConversationSummary, error) {
	var resp dataEnvelope[[]models.ConversationSummary]
	if err := c.do(ctx, http.MethodGet, "/api/v1/chat/conversations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) Messages(ctx context.Context, convID uint) ([]models.MessageView, error) {
	var resp dataEnvelope[[]models.MessageView]
	path := fmt.Sprintf("/api/v1/chat/conversations/%d/messages", convID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) SendMessage(ctx context.Context, convID uint, content string) (*models.Message, error) {
	var resp dataEnvelope[models.Message]
	path := fmt.Sprintf("/api/v1/chat/conversations/%d/messages", convID)
	err := c.do(ctx, http.MethodPost, path, map[string]string{"content": content}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// PurchaseResult is the purchase plus the conversation the greeting message
// landed in.
type PurchaseResult struct {
	Purchase     models.Purchase     `json:"purchase"`
	Conversation models.Conversation `json:"conversation"`
}

func (c *Client) Buy(ctx context.Context, productID uint) (*PurchaseResult, error) {
	var resp PurchaseResult
	err := c.do(ctx, http.MethodPost, "/api/v1/purchases", map[string]uint{
		"product_id": productID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Purchases(ctx context.Context) ([]models.PurchaseView, error) {
	var resp dataEnvelope[[]models.PurchaseView]
	if err := c.do(ctx, http.MethodGet, "/api/v1/purchases", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Message == "" {
			envelope.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
