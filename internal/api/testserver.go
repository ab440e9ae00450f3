package api

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/PhilipFalla/pokecollect-gui/internal/database"
	"github.com/PhilipFalla/pokecollect-gui/internal/services"
)

// NewTestServer starts the full router over a fresh in-memory database. It
// is shared by the client and flow tests.
func NewTestServer(t testing.TB) (*httptest.Server, Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.MemoryPath)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	prices, err := services.NewPriceService(db, 64)
	if err != nil {
		t.Fatalf("create price service: %v", err)
	}

	svc := Services{
		DB:           db,
		Prices:       prices,
		Passwords:    services.NewPasswordService(bcrypt.MinCost),
		ImageStorage: services.NewImageStorageService(t.TempDir()),
		Snapshots:    services.NewSnapshotService(db, prices, 23),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	server := httptest.NewServer(SetupRouter(Config{LoginRateLimit: 0}, svc))
	t.Cleanup(server.Close)
	return server, svc
}
