package flow

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhilipFalla/pokecollect-gui/internal/api"
	"github.com/PhilipFalla/pokecollect-gui/internal/app"
	"github.com/PhilipFalla/pokecollect-gui/internal/client"
	"github.com/PhilipFalla/pokecollect-gui/internal/config"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

func TestDashboardRequiresLogin(t *testing.T) {
	a, rec := newServerApp(t)
	_, err := NewDashboard(a).Load(context.Background())
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.Equal(t, app.RouteLogin, rec.lastRoute())
}

func TestDashboardCreateAndLoad(t *testing.T) {
	a, rec := newServerApp(t)
	a.Config.DefaultExchangeRate = 7.5
	ctx := context.Background()
	_, err := NewSession(a).Signup(ctx, "misty@example.com", "togepi")
	require.NoError(t, err)

	dash := NewDashboard(a)
	created, err := dash.Create(ctx, "  Water types ")
	require.NoError(t, err)
	assert.Equal(t, "Water types", created.Title)
	assert.Equal(t, 7.5, created.ExchangeRate)
	assert.Equal(t, app.RouteCollection(created.ID), rec.lastRoute())

	rows, err := dash.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Water types", rows[0].Title)
	assert.Equal(t, "Q0.00", rows[0].LocalMoney)
	assert.Equal(t, "$0.00 USD", rows[0].USDMoney)
}

func TestSessionLifecycle(t *testing.T) {
	server, _ := api.NewTestServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session.toml")
	rec := &recorder{}
	a, err := app.New(config.Default(), client.New(server.URL), rec, rec, sessionPath)
	require.NoError(t, err)
	ctx := context.Background()
	s := NewSession(a)

	_, err = s.Login(ctx, "brock@example.com", "onix")
	assert.ErrorIs(t, err, client.ErrRejected)
	assert.Nil(t, a.User())

	user, err := s.Signup(ctx, "brock@example.com", "onix")
	require.NoError(t, err)
	assert.Equal(t, app.RouteCollections, rec.lastRoute())

	// A fresh process picks the session up from disk
	again, err := app.New(config.Default(), client.New(server.URL), rec, rec, sessionPath)
	require.NoError(t, err)
	require.NotNil(t, again.User())
	assert.Equal(t, user.ID, again.User().ID)

	require.NoError(t, s.Logout())
	assert.Nil(t, a.User())
	assert.Equal(t, app.RouteLogin, rec.lastRoute())

	logged, err := s.Login(ctx, "brock@example.com", "onix")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	require.NoError(t, s.DeleteAccount(ctx))
	assert.Nil(t, a.User())
	_, err = s.Login(ctx, "brock@example.com", "onix")
	assert.Error(t, err)
}

func TestFilterCards(t *testing.T) {
	cards := []models.Card{
		{ID: 1, Name: "Charizard", SetName: "Base Set"},
		{ID: 2, Name: "Pikachu", SetName: "Jungle"},
		{ID: 3, Name: "Charmander", SetName: "Base Set"},
	}

	got := FilterCards(cards, "char")
	require.Len(t, got, 2)
	for _, c := range got {
		assert.NotEqual(t, uint(2), c.ID)
	}

	assert.Equal(t, cards, FilterCards(cards, "  "))
	assert.Empty(t, FilterCards(cards, "zzz"))
}
