// Package app holds the application handle passed to every flow: config,
// translator, API client, notifier, navigator and the logged-in user.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/PhilipFalla/pokecollect-gui/internal/config"
	"github.com/PhilipFalla/pokecollect-gui/internal/currency"
	"github.com/PhilipFalla/pokecollect-gui/internal/i18n"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// API is the subset of the REST client the flows use
type API interface {
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, email, password string) (*models.User, error)
	DeleteUser(ctx context.Context, userID uint) error
	GetCollectionsByUser(ctx context.Context, userID uint) ([]models.Collection, error)
	CreateCollection(ctx context.Context, req models.CreateCollectionRequest) (*models.Collection, error)
	GetCollection(ctx context.Context, collectionID uint) (*models.Collection, error)
	UpdateCollectionExchangeRate(ctx context.Context, collectionID uint, rate float64) (*models.Collection, error)
	GetCardsByCollection(ctx context.Context, collectionID uint) ([]models.Card, error)
	AddCardToCollection(ctx context.Context, req models.AddCardRequest) (*models.Card, error)
	RemoveCardFromCollection(ctx context.Context, cardID, collectionID uint) error
	GetCollectionHistory(ctx context.Context, collectionID uint, period string) (*models.ValueHistoryResponse, error)
}

// Kind classifies a notification
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a transient message for the user
type Notification struct {
	Kind    Kind
	Message string
}

type Notifier interface {
	Notify(n Notification)
}

// Navigator moves the user to another view
type Navigator interface {
	Navigate(route string)
}

const (
	RouteLogin       = "/login"
	RouteCollections = "/dashboard"
)

// RouteCollection is the detail view of one collection
func RouteCollection(id uint) string {
	return "/collection/" + strconv.FormatUint(uint64(id), 10)
}

// Context is created once at startup and passed down explicitly
type Context struct {
	Config     *config.Config
	Translator *i18n.Translator
	API        API
	Notifier   Notifier
	Navigator  Navigator
	Currency   currency.Currency
	Logger     *slog.Logger

	mu          sync.RWMutex
	user        *models.User
	sessionPath string
}

// New builds a Context. sessionPath may be empty to keep the session in
// memory only.
func New(cfg *config.Config, api API, notifier Notifier, navigator Navigator, sessionPath string) (*Context, error) {
	lang, err := i18n.ParseLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}
	ctx := &Context{
		Config:      cfg,
		Translator:  i18n.NewTranslator(lang),
		API:         api,
		Notifier:    notifier,
		Navigator:   navigator,
		Currency:    cfg.LocalCurrency,
		Logger:      slog.Default(),
		sessionPath: sessionPath,
	}
	if ctx.Currency.Code == "" {
		ctx.Currency = currency.GTQ
	}
	if err := ctx.loadSession(); err != nil {
		return nil, err
	}
	return ctx, nil
}

func (c *Context) T(key string) string {
	return c.Translator.T(key)
}

// Notify forwards to the Notifier when one is set
func (c *Context) Notify(kind Kind, message string) {
	if c.Notifier != nil {
		c.Notifier.Notify(Notification{Kind: kind, Message: message})
	}
}

func (c *Context) Navigate(route string) {
	if c.Navigator != nil {
		c.Navigator.Navigate(route)
	}
}

// User returns the logged-in user, or nil
func (c *Context) User() *models.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// SetUser records the logged-in user and persists the session
func (c *Context) SetUser(u models.User) error {
	c.mu.Lock()
	c.user = &u
	c.mu.Unlock()
	return c.saveSession(&session{UserID: u.ID, Email: u.Email})
}

// ClearUser forgets the logged-in user
func (c *Context) ClearUser() error {
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()

	if c.sessionPath == "" {
		return nil
	}
	if err := os.Remove(c.sessionPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// session is the on-disk login state
type session struct {
	UserID uint   `toml:"user_id"`
	Email  string `toml:"email"`
}

func (c *Context) loadSession() error {
	if c.sessionPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session: %w", err)
	}

	var s session
	if err := toml.Unmarshal(data, &s); err != nil {
		// A corrupt session just means logging in again
		c.Logger.Warn("ignoring unreadable session file", slog.String("path", c.sessionPath), slog.Any("error", err))
		return nil
	}
	if s.UserID != 0 {
		c.user = &models.User{ID: s.UserID, Email: s.Email}
	}
	return nil
}

func (c *Context) saveSession(s *session) error {
	if c.sessionPath == "" {
		return nil
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.sessionPath, data, 0o600)
}
