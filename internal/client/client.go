// Package client is the HTTP client for the collection REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// maxErrorBody caps how much of an error response is read
const maxErrorBody = 64 << 10

// Client issues one request per call. It never retries or caches.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets a per-request timeout; zero keeps requests unbounded
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func id(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Message: DefaultMessage(op), Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Op: op, Message: DefaultMessage(op), Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", slog.String("op", op), slog.Any("error", err))
		return &RequestError{Op: op, Message: DefaultMessage(op), Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		slog.String("op", op),
		slog.String("method", method),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: errorDetail(resp.Body, DefaultMessage(op)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Op: op, Message: DefaultMessage(op), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorDetail extracts {"detail": "..."} or returns fallback
func errorDetail(body io.Reader, fallback string) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return fallback
	}
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fallback
	}
	if detail, ok := payload.Detail.(string); ok && detail != "" {
		return detail
	}
	return fallback
}

func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, opCreateUser, http.MethodPost, "/users/", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser is the credential check; it fails unless the password matches
func (c *Client) GetUser(ctx context.Context, email, password string) (*models.User, error) {
	path := "/users/" + url.PathEscape(email) + "?password=" + url.QueryEscape(password)
	var user models.User
	if err := c.do(ctx, opGetUser, http.MethodGet, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID uint) error {
	return c.do(ctx, opDeleteUser, http.MethodDelete, "/users/"+id(userID), nil, nil)
}

func (c *Client) GetCollectionsByUser(ctx context.Context, userID uint) ([]models.Collection, error) {
	var collections []models.Collection
	if err := c.do(ctx, opListCollections, http.MethodGet, "/collections/user/"+id(userID), nil, &collections); err != nil {
		return nil, err
	}
	return collections, nil
}

func (c *Client) CreateCollection(ctx context.Context, req models.CreateCollectionRequest) (*models.Collection, error) {
	var collection models.Collection
	if err := c.do(ctx, opCreateCollection, http.MethodPost, "/collections/", req, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

func (c *Client) GetCollection(ctx context.Context, collectionID uint) (*models.Collection, error) {
	var collection models.Collection
	if err := c.do(ctx, opGetCollection, http.MethodGet, "/collections/"+id(collectionID), nil, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

func (c *Client) UpdateCollectionExchangeRate(ctx context.Context, collectionID uint, rate float64) (*models.Collection, error) {
	var collection models.Collection
	req := models.UpdateExchangeRateRequest{NewExchangeRate: rate}
	if err := c.do(ctx, opUpdateExchangeRate, http.MethodPut, "/collections/"+id(collectionID)+"/exchange_rate", req, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

func (c *Client) GetCardsByCollection(ctx context.Context, collectionID uint) ([]models.Card, error) {
	var cards []models.Card
	if err := c.do(ctx, opListCards, http.MethodGet, "/cards_in_collection/details/"+id(collectionID), nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) AddCardToCollection(ctx context.Context, req models.AddCardRequest) (*models.Card, error) {
	var card models.Card
	if err := c.do(ctx, opAddCard, http.MethodPost, "/cards_in_collection/", req, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// RemoveCardFromCollection sends a DELETE carrying a JSON body
func (c *Client) RemoveCardFromCollection(ctx context.Context, cardID, collectionID uint) error {
	req := models.RemoveCardRequest{CardID: cardID, CollectionID: collectionID}
	return c.do(ctx, opRemoveCard, http.MethodDelete, "/cards_in_collection/", req, nil)
}

// GetCollectionHistory returns daily value snapshots; period is one of
// week, month, 3month, year or all.
func (c *Client) GetCollectionHistory(ctx context.Context, collectionID uint, period string) (*models.ValueHistoryResponse, error) {
	path := "/collections/" + id(collectionID) + "/history"
	if period != "" {
		path += "?period=" + url.QueryEscape(period)
	}
	var history models.ValueHistoryResponse
	if err := c.do(ctx, opGetHistory, http.MethodGet, path, nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

func (c *Client) UpsertPrice(ctx context.Context, req models.UpsertPriceRequest) (*models.CardPrice, error) {
	var price models.CardPrice
	if err := c.do(ctx, opUpsertPrice, http.MethodPut, "/prices/", req, &price); err != nil {
		return nil, err
	}
	return &price, nil
}
