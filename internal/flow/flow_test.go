package flow

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhilipFalla/pokecollect-gui/internal/api"
	"github.com/PhilipFalla/pokecollect-gui/internal/app"
	"github.com/PhilipFalla/pokecollect-gui/internal/client"
	"github.com/PhilipFalla/pokecollect-gui/internal/config"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

type recorder struct {
	mu     sync.Mutex
	notes  []app.Notification
	routes []string
}

func (r *recorder) Notify(n app.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *recorder) lastRoute() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.routes) == 0 {
		return ""
	}
	return r.routes[len(r.routes)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

func (r *recorder) successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notes {
		if n.Kind == app.KindSuccess {
			out = append(out, n.Message)
		}
	}
	return out
}

func (r *recorder) errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notes {
		if n.Kind == app.KindError {
			out = append(out, n.Message)
		}
	}
	return out
}

// fakeAPI serves one collection from memory and fails on demand
type fakeAPI struct {
	app.API

	mu         sync.Mutex
	collection models.Collection
	cards      []models.Card
	rateErr    error
	removeErr  error
	cardsErr   error
	blockReads bool
	rateCalls  int
	// rateGates holds a rate's response until its channel is closed
	rateGates map[float64]chan struct{}
}

func (f *fakeAPI) GetCollection(ctx context.Context, id uint) (*models.Collection, error) {
	if f.blockReads {
		<-ctx.Done()
		return nil, &client.RequestError{Op: "get collection", Message: "Failed to fetch collection", Err: ctx.Err()}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != f.collection.ID {
		return nil, &client.RequestError{Op: "get collection", Status: http.StatusNotFound, Message: "Collection not found"}
	}
	c := f.collection
	return &c, nil
}

func (f *fakeAPI) GetCardsByCollection(ctx context.Context, id uint) ([]models.Card, error) {
	if f.blockReads {
		<-ctx.Done()
		return nil, &client.RequestError{Op: "list cards", Message: "Failed to fetch cards", Err: ctx.Err()}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cardsErr != nil {
		return nil, f.cardsErr
	}
	return append([]models.Card(nil), f.cards...), nil
}

func (f *fakeAPI) UpdateCollectionExchangeRate(ctx context.Context, id uint, rate float64) (*models.Collection, error) {
	f.mu.Lock()
	f.rateCalls++
	gate := f.rateGates[rate]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &client.RequestError{Op: "update exchange rate", Message: "Failed to update exchange rate", Err: ctx.Err()}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rateErr != nil {
		return nil, f.rateErr
	}
	f.collection.ExchangeRate = rate
	c := f.collection
	return &c, nil
}

func (f *fakeAPI) RemoveCardFromCollection(ctx context.Context, cardID, collectionID uint) error {
	return f.removeErr
}

func newFakeApp(t *testing.T, fake *fakeAPI) (*app.Context, *recorder) {
	t.Helper()
	rec := &recorder{}
	a, err := app.New(config.Default(), fake, rec, rec, "")
	require.NoError(t, err)
	require.NoError(t, a.SetUser(models.User{ID: 1, Email: "ash@example.com"}))
	return a, rec
}

func newServerApp(t *testing.T) (*app.Context, *recorder) {
	t.Helper()
	server, _ := api.NewTestServer(t)
	rec := &recorder{}
	a, err := app.New(config.Default(), client.New(server.URL), rec, rec, "")
	require.NoError(t, err)
	return a, rec
}

func sampleFake() *fakeAPI {
	return &fakeAPI{
		collection: models.Collection{ID: 5, UserID: 1, Title: "Vintage", PriceUSD: 2500, ExchangeRate: 7.75},
		cards: []models.Card{
			{ID: 1, Name: "Charizard", SetName: "Base Set", Quantity: 1},
			{ID: 2, Name: "Blastoise", SetName: "Base Set", Quantity: 2},
		},
	}
}

func TestOpenRequiresUserAndID(t *testing.T) {
	rec := &recorder{}
	a, err := app.New(config.Default(), sampleFake(), rec, rec, "")
	require.NoError(t, err)

	d := NewDetail(a)
	assert.ErrorIs(t, d.Open(context.Background(), 5), ErrPrecondition)
	assert.Equal(t, app.RouteLogin, rec.lastRoute())

	require.NoError(t, a.SetUser(models.User{ID: 1}))
	assert.ErrorIs(t, d.Open(context.Background(), 0), ErrPrecondition)
	assert.Equal(t, StateLoading, d.Snapshot().State)
}

func TestOpenReady(t *testing.T) {
	a, _ := newFakeApp(t, sampleFake())
	d := NewDetail(a)
	defer d.Close()

	require.NoError(t, d.Open(context.Background(), 5))
	v := d.Snapshot()
	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, 3, v.CardCount)
	assert.Equal(t, "19,375.00", v.Amounts.Local)
	assert.Equal(t, "2,500.00", v.Amounts.USD)
	assert.Equal(t, "19375.00", v.Amounts.LocalValue.StringFixed(2))
	assert.Equal(t, "Q19,375.00", v.LocalMoney)
	assert.Equal(t, "$2,500.00 USD", v.USDMoney)
}

func TestOpenUnknownCollectionIsNotFound(t *testing.T) {
	a, rec := newServerApp(t)
	user, err := NewSession(a).Signup(context.Background(), "gary@example.com", "eevee")
	require.NoError(t, err)
	require.NotNil(t, user)

	d := NewDetail(a)
	defer d.Close()

	err = d.Open(context.Background(), 987)
	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.Equal(t, StateNotFound, d.Snapshot().State)
	assert.Equal(t, app.RouteCollections, rec.lastRoute())
	assert.Contains(t, rec.errors(), "Collection not found")
}

func TestOpenTransportErrorIsErrorState(t *testing.T) {
	rec := &recorder{}
	a, err := app.New(config.Default(), client.New("http://127.0.0.1:1"), rec, rec, "")
	require.NoError(t, err)
	require.NoError(t, a.SetUser(models.User{ID: 1}))

	d := NewDetail(a)
	defer d.Close()

	err = d.Open(context.Background(), 5)
	assert.ErrorIs(t, err, client.ErrTransport)
	assert.Equal(t, StateError, d.Snapshot().State)
	assert.Equal(t, app.RouteCollections, rec.lastRoute())
	assert.Len(t, rec.errors(), 1)
}

func TestSetExchangeRateIsNotRolledBack(t *testing.T) {
	fake := sampleFake()
	fake.rateErr = &client.RequestError{Op: "update exchange rate", Status: http.StatusBadRequest, Message: "exchange rate must be positive"}
	a, rec := newFakeApp(t, fake)
	d := NewDetail(a)
	defer d.Close()
	require.NoError(t, d.Open(context.Background(), 5))

	rate := decimal.RequireFromString("7.9")
	require.NoError(t, d.SetExchangeRate(rate))
	// Local value changes before the write lands
	assert.True(t, d.Snapshot().Rate.Equal(rate))

	d.Wait()
	assert.True(t, d.Snapshot().Rate.Equal(rate), "failed write must not roll back the rate")
	assert.Equal(t, []string{"exchange rate must be positive"}, rec.errors())
	assert.Equal(t, 1, fake.rateCalls)
	assert.ErrorIs(t, d.SaveErr(), client.ErrRejected)
}

func TestSetExchangeRateAcceptsAnyRate(t *testing.T) {
	fake := sampleFake()
	a, _ := newFakeApp(t, fake)
	d := NewDetail(a)
	defer d.Close()
	require.NoError(t, d.Open(context.Background(), 5))

	require.NoError(t, d.SetExchangeRate(decimal.RequireFromString("12.25")))
	d.Wait()
	assert.Equal(t, "12.25", d.Snapshot().Rate.String())
	assert.Equal(t, 12.25, fake.collection.ExchangeRate)
	assert.NoError(t, d.SaveErr())
}

func TestOverlappingRateWritesLastResponseWins(t *testing.T) {
	fake := sampleFake()
	first, second := make(chan struct{}), make(chan struct{})
	fake.rateGates = map[float64]chan struct{}{7.5: first, 8.0: second}
	a, rec := newFakeApp(t, fake)
	d := NewDetail(a)
	defer d.Close()
	require.NoError(t, d.Open(context.Background(), 5))

	require.NoError(t, d.SetExchangeRate(decimal.RequireFromString("7.5")))
	require.NoError(t, d.SetExchangeRate(decimal.RequireFromString("8.0")))
	assert.Equal(t, "8", d.Snapshot().Rate.String())

	// The later write lands first, then the earlier one overwrites it
	close(second)
	assert.Eventually(t, func() bool { return len(rec.successes()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "8", d.Snapshot().Rate.String())

	close(first)
	d.Wait()
	assert.Equal(t, "7.5", d.Snapshot().Rate.String())
	assert.Equal(t, 7.5, d.Snapshot().Collection.ExchangeRate)
	assert.Len(t, rec.successes(), 2)
	assert.Empty(t, rec.errors())
	assert.Equal(t, 2, fake.rateCalls)
}

func TestCloseDropsInFlightRateWrite(t *testing.T) {
	fake := sampleFake()
	fake.rateGates = map[float64]chan struct{}{7.9: make(chan struct{})}
	a, rec := newFakeApp(t, fake)
	d := NewDetail(a)
	require.NoError(t, d.Open(context.Background(), 5))
	before := rec.count()

	require.NoError(t, d.SetExchangeRate(decimal.RequireFromString("7.9")))

	closed := make(chan struct{})
	go func() {
		d.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return while a rate write was in flight")
	}

	assert.Equal(t, before, rec.count(), "no notification after close")
	assert.Equal(t, StateClosed, d.Snapshot().State)
	assert.NoError(t, d.SaveErr())
	assert.Equal(t, 7.75, fake.collection.ExchangeRate)
}

func TestSetExchangeRateBeforeOpen(t *testing.T) {
	a, _ := newFakeApp(t, sampleFake())
	d := NewDetail(a)
	assert.ErrorIs(t, d.SetExchangeRate(decimal.NewFromInt(7)), ErrNotReady)
}

func TestRemoveCardFailureKeepsLocalRemoval(t *testing.T) {
	fake := sampleFake()
	fake.removeErr = &client.RequestError{Op: "remove card", Message: "Failed to remove card", Err: errors.New("connection reset")}
	a, rec := newFakeApp(t, fake)
	d := NewDetail(a)
	defer d.Close()
	require.NoError(t, d.Open(context.Background(), 5))

	err := d.RemoveCard(context.Background(), 2)
	assert.Error(t, err)

	v := d.Snapshot()
	require.Len(t, v.Cards, 1)
	assert.Equal(t, uint(1), v.Cards[0].ID)
	assert.Equal(t, 1, v.CardCount)
	assert.Equal(t, []string{"Failed to remove card"}, rec.errors())
}

func TestRemoveCardSucceedsWhenReloadFails(t *testing.T) {
	fake := sampleFake()
	a, rec := newFakeApp(t, fake)
	d := NewDetail(a)
	defer d.Close()
	require.NoError(t, d.Open(context.Background(), 5))

	fake.mu.Lock()
	fake.cardsErr = &client.RequestError{Op: "list cards", Message: "Failed to fetch cards", Err: errors.New("connection reset")}
	fake.mu.Unlock()

	require.NoError(t, d.RemoveCard(context.Background(), 2))

	v := d.Snapshot()
	require.Len(t, v.Cards, 1)
	assert.Equal(t, uint(1), v.Cards[0].ID)
	assert.Equal(t, []string{"Card removed"}, rec.successes())
	assert.Equal(t, []string{"Failed to fetch cards"}, rec.errors())
}

func TestAddAndRemoveAgainstServer(t *testing.T) {
	a, _ := newServerApp(t)
	ctx := context.Background()
	_, err := NewSession(a).Signup(ctx, "ash@example.com", "pikachu")
	require.NoError(t, err)

	collection, err := NewDashboard(a).Create(ctx, "Kanto")
	require.NoError(t, err)

	d := NewDetail(a)
	defer d.Close()
	require.NoError(t, d.Open(ctx, collection.ID))
	assert.Empty(t, d.Snapshot().Cards)

	err = d.AddCard(ctx, models.AddCardRequest{
		ConditionID: models.ConditionNM.ID(),
		LanguageID:  models.LanguageEnglish.ID(),
		Quantity:    2,
		CardName:    "Mewtwo",
		SetName:     "Base Set",
		NumberInSet: "10/102",
	})
	require.NoError(t, err)

	v := d.Snapshot()
	require.Len(t, v.Cards, 1)
	assert.Equal(t, "Mewtwo", v.Cards[0].Name)
	assert.Equal(t, "Base Set", v.Cards[0].SetName)
	assert.Equal(t, 2, v.Cards[0].Quantity)
	assert.Equal(t, 2, v.CardCount)

	require.NoError(t, d.RemoveCard(ctx, v.Cards[0].ID))
	assert.Empty(t, d.Snapshot().Cards)

	cards, err := a.API.GetCardsByCollection(ctx, collection.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestAddCardFailureLeavesListUntouched(t *testing.T) {
	a, rec := newServerApp(t)
	ctx := context.Background()
	_, err := NewSession(a).Signup(ctx, "ash@example.com", "pikachu")
	require.NoError(t, err)
	collection, err := NewDashboard(a).Create(ctx, "Kanto")
	require.NoError(t, err)

	d := NewDetail(a)
	defer d.Close()
	require.NoError(t, d.Open(ctx, collection.ID))

	err = d.AddCard(ctx, models.AddCardRequest{ConditionID: 1, LanguageID: 1, CardName: "Mew", Quantity: 10000})
	assert.ErrorIs(t, err, client.ErrRejected)
	assert.Empty(t, d.Snapshot().Cards)
	assert.Equal(t, []string{"quantity exceeds maximum allowed (9999)"}, rec.errors())
}

func TestCloseDiscardsInFlightOpen(t *testing.T) {
	fake := sampleFake()
	fake.blockReads = true
	a, rec := newFakeApp(t, fake)
	d := NewDetail(a)

	done := make(chan error, 1)
	go func() { done <- d.Open(context.Background(), 5) }()

	time.Sleep(20 * time.Millisecond)
	d.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Open did not return after Close")
	}
	assert.Equal(t, StateClosed, d.Snapshot().State)
	assert.Empty(t, rec.errors(), "no notification after close")
	assert.Empty(t, rec.routes, "no navigation after close")
}

func TestShareCopiesLinkAndClearsAcknowledgement(t *testing.T) {
	a, _ := newFakeApp(t, sampleFake())
	a.Config.ShareBaseURL = "https://pokecollect.example"
	d := NewDetail(a)
	d.copiedFor = 20 * time.Millisecond
	defer d.Close()
	require.NoError(t, d.Open(context.Background(), 5))

	clip := &memClipboard{}
	link, err := d.Share(clip)
	require.NoError(t, err)
	assert.Equal(t, "https://pokecollect.example/collection/5", link)
	assert.Equal(t, link, clip.text)
	assert.True(t, d.Snapshot().Copied)

	assert.Eventually(t, func() bool { return !d.Snapshot().Copied }, time.Second, 5*time.Millisecond)
}

func TestExportPDF(t *testing.T) {
	a, _ := newFakeApp(t, sampleFake())
	d := NewDetail(a)
	defer d.Close()
	require.NoError(t, d.Open(context.Background(), 5))

	doc := d.Document()
	assert.Equal(t, "Vintage", doc.Title)
	assert.Equal(t, 3, doc.CardCount)
	assert.Equal(t, "Charizard", doc.Cards[0].Name)
	assert.Equal(t, "Set Name", doc.Labels.SetName)

	a.Translator.SetLanguage("ES")
	assert.Equal(t, "Nombre del Set", d.Document().Labels.SetName)

	var buf bytes.Buffer
	require.NoError(t, d.ExportPDF(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRateLadder(t *testing.T) {
	ladder := RateLadder()
	require.Len(t, ladder, 11)
	assert.Equal(t, "7.0", ladder[0].StringFixed(1))
	assert.Equal(t, "7.5", ladder[5].StringFixed(1))
	assert.Equal(t, "8.0", ladder[10].StringFixed(1))
}

type memClipboard struct {
	text string
}

func (m *memClipboard) WriteAll(text string) error {
	m.text = text
	return nil
}
