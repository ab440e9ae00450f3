package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

func doJSON(t *testing.T, method, target string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func seedUserAndCollection(t *testing.T, base string) (models.User, models.Collection) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, base+"/users/", models.CreateUserRequest{Email: "ash@example.com", Password: "pikachu"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[models.User](t, resp)

	resp = doJSON(t, http.MethodPost, base+"/collections/", models.CreateCollectionRequest{Title: "Vintage", UserID: user.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return user, decode[models.Collection](t, resp)
}

func TestUserSignupAndLogin(t *testing.T) {
	server, _ := NewTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/users/", models.CreateUserRequest{Email: "Misty@Example.com", Password: "starmie"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[models.User](t, resp)
	assert.Equal(t, "misty@example.com", user.Email)
	assert.NotZero(t, user.ID)

	resp = doJSON(t, http.MethodPost, server.URL+"/users/", models.CreateUserRequest{Email: "misty@example.com", Password: "other"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already registered", decode[models.ErrorResponse](t, resp).Detail)

	resp = doJSON(t, http.MethodGet, server.URL+"/users/misty@example.com?password="+url.QueryEscape("starmie"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, user.ID, decode[models.User](t, resp).ID)

	resp = doJSON(t, http.MethodGet, server.URL+"/users/misty@example.com?password=wrong", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/users/nobody@example.com?password=x", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRateLimit(t *testing.T) {
	_, svc := NewTestServer(t)
	limited := httptest.NewServer(SetupRouter(Config{LoginRateLimit: 2}, svc))
	defer limited.Close()

	for i := 0; i < 2; i++ {
		resp := doJSON(t, http.MethodGet, limited.URL+"/users/a@b.c?password=x", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp := doJSON(t, http.MethodGet, limited.URL+"/users/a@b.c?password=x", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestCollectionLifecycle(t *testing.T) {
	server, _ := NewTestServer(t)
	user, collection := seedUserAndCollection(t, server.URL)

	assert.Equal(t, models.DefaultExchangeRate, collection.ExchangeRate)
	assert.Zero(t, collection.PriceUSD)

	resp := doJSON(t, http.MethodGet, server.URL+"/collections/user/"+itoa(user.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]models.Collection](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Vintage", list[0].Title)

	resp = doJSON(t, http.MethodPut, server.URL+"/collections/"+itoa(collection.ID)+"/exchange_rate", models.UpdateExchangeRateRequest{NewExchangeRate: 7.9})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7.9, decode[models.Collection](t, resp).ExchangeRate)

	resp = doJSON(t, http.MethodPut, server.URL+"/collections/"+itoa(collection.ID)+"/exchange_rate", models.UpdateExchangeRateRequest{NewExchangeRate: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/collections/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Collection not found", decode[models.ErrorResponse](t, resp).Detail)

	resp = doJSON(t, http.MethodGet, server.URL+"/collections/user/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIdenticalCardsStaySeparateAndValued(t *testing.T) {
	server, _ := NewTestServer(t)
	_, collection := seedUserAndCollection(t, server.URL)

	resp := doJSON(t, http.MethodPut, server.URL+"/prices/", models.UpsertPriceRequest{
		CardName: "Charizard", SetName: "Base Set", NumberInSet: "4/102", PriceUSD: 1250,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	add := models.AddCardRequest{
		CollectionID: collection.ID,
		ConditionID:  models.ConditionNM.ID(),
		LanguageID:   models.LanguageEnglish.ID(),
		Quantity:     1,
		CardName:     "Charizard",
		SetName:      "Base Set",
		NumberInSet:  "4/102",
		Edition:      "Unlimited",
	}
	resp = doJSON(t, http.MethodPost, server.URL+"/cards_in_collection/", add)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode[models.Card](t, resp)
	assert.Equal(t, models.ConditionNM, first.Condition)
	assert.Equal(t, models.LanguageEnglish, first.Language)
	assert.Equal(t, "Unlimited", first.Version)
	assert.Equal(t, 1250.0, first.ValueUSD)

	add.Quantity = 2
	resp = doJSON(t, http.MethodPost, server.URL+"/cards_in_collection/", add)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	second := decode[models.Card](t, resp)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)
	assert.Equal(t, 2500.0, second.ValueUSD)

	resp = doJSON(t, http.MethodGet, server.URL+"/cards_in_collection/details/"+itoa(collection.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cards := decode[[]models.Card](t, resp)
	require.Len(t, cards, 2)
	quantities := []int{cards[0].Quantity, cards[1].Quantity}
	assert.ElementsMatch(t, []int{1, 2}, quantities)

	resp = doJSON(t, http.MethodGet, server.URL+"/collections/"+itoa(collection.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.Collection](t, resp)
	assert.Equal(t, 3750.0, got.PriceUSD)
	assert.Equal(t, 3, got.CardCount)

	add.Quantity = 10000
	resp = doJSON(t, http.MethodPost, server.URL+"/cards_in_collection/", add)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	add.Quantity = 1
	add.ConditionID = 42
	resp = doJSON(t, http.MethodPost, server.URL+"/cards_in_collection/", add)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddCardWithImage(t *testing.T) {
	server, _ := NewTestServer(t)
	_, collection := seedUserAndCollection(t, server.URL)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	add := models.AddCardRequest{
		CollectionID: collection.ID,
		ConditionID:  models.ConditionLP.ID(),
		LanguageID:   models.LanguageJapanese.ID(),
		CardName:     "Pikachu",
		ImageData:    base64.StdEncoding.EncodeToString(png),
	}
	resp := doJSON(t, http.MethodPost, server.URL+"/cards_in_collection/", add)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	card := decode[models.Card](t, resp)
	assert.Equal(t, 1, card.Quantity)
	assert.Regexp(t, `^/images/cards/.+\.png$`, card.Image)

	img := doJSON(t, http.MethodGet, server.URL+card.Image, nil)
	assert.Equal(t, http.StatusOK, img.StatusCode)

	add.ImageData = "not base64!"
	resp = doJSON(t, http.MethodPost, server.URL+"/cards_in_collection/", add)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRemoveCard(t *testing.T) {
	server, _ := NewTestServer(t)
	_, collection := seedUserAndCollection(t, server.URL)

	resp := doJSON(t, http.MethodPost, server.URL+"/cards_in_collection/", models.AddCardRequest{
		CollectionID: collection.ID, ConditionID: 1, LanguageID: 1, CardName: "Bulbasaur", Quantity: 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	card := decode[models.Card](t, resp)

	resp = doJSON(t, http.MethodDelete, server.URL+"/cards_in_collection/", models.RemoveCardRequest{CardID: card.ID, CollectionID: collection.ID})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/cards_in_collection/details/"+itoa(collection.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]models.Card](t, resp))

	resp = doJSON(t, http.MethodDelete, server.URL+"/cards_in_collection/", models.RemoveCardRequest{CardID: card.ID, CollectionID: collection.ID})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Card not found in collection", decode[models.ErrorResponse](t, resp).Detail)
}

func TestDeleteUserCascades(t *testing.T) {
	server, svc := NewTestServer(t)
	user, collection := seedUserAndCollection(t, server.URL)

	resp := doJSON(t, http.MethodPost, server.URL+"/cards_in_collection/", models.AddCardRequest{
		CollectionID: collection.ID, ConditionID: 1, LanguageID: 1, CardName: "Squirtle",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, server.URL+"/users/"+itoa(user.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var collections, cards int64
	svc.DB.Model(&models.Collection{}).Count(&collections)
	svc.DB.Model(&models.CollectionCard{}).Count(&cards)
	assert.Zero(t, collections)
	assert.Zero(t, cards)

	resp = doJSON(t, http.MethodDelete, server.URL+"/users/"+itoa(user.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValueHistory(t *testing.T) {
	server, svc := NewTestServer(t)
	_, collection := seedUserAndCollection(t, server.URL)
	require.NoError(t, svc.Snapshots.TakeSnapshot())

	resp := doJSON(t, http.MethodGet, server.URL+"/collections/"+itoa(collection.ID)+"/history?period=week", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[models.ValueHistoryResponse](t, resp)
	assert.Equal(t, "week", history.Period)
	assert.Len(t, history.Snapshots, 1)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	server, _ := NewTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, server.URL+"/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", decode[models.ErrorResponse](t, resp).Detail)
}

func TestRouterWithZeroConfig(t *testing.T) {
	_, svc := NewTestServer(t)
	var router http.Handler
	require.NotPanics(t, func() { router = SetupRouter(Config{}, svc) })

	server := httptest.NewServer(router)
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	_, svc := NewTestServer(t)
	server := httptest.NewServer(SetupRouter(Config{CORSOrigins: []string{"http://localhost:5173"}}, svc))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
