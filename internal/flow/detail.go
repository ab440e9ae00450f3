package flow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/PhilipFalla/pokecollect-gui/internal/app"
	"github.com/PhilipFalla/pokecollect-gui/internal/client"
	"github.com/PhilipFalla/pokecollect-gui/internal/currency"
	"github.com/PhilipFalla/pokecollect-gui/internal/export"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// CopiedDuration is how long the share acknowledgement stays visible
const CopiedDuration = 2 * time.Second

type State int

const (
	StateLoading State = iota
	StateReady
	StateNotFound
	StateError
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateNotFound:
		return "not-found"
	case StateError:
		return "error"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Clipboard receives share links
type Clipboard interface {
	WriteAll(text string) error
}

// View is a copy of the detail state for rendering
type View struct {
	State      State
	Collection models.Collection
	Cards      []models.Card
	Rate       decimal.Decimal
	CardCount  int
	Amounts    currency.Amounts
	LocalMoney string // e.g. Q19,375.00
	USDMoney   string // e.g. $2,500.00 USD
	Copied     bool
	Err        error
}

// Detail is the state of one opened collection. Every request it makes is
// cancelled by Close, and responses arriving afterwards are dropped.
type Detail struct {
	app *app.Context

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	state      State
	id         uint
	collection models.Collection
	cards      []models.Card
	rate       decimal.Decimal
	err        error
	saveErr    error
	copied     bool
	copyTimer  *time.Timer
	copiedFor  time.Duration
}

func NewDetail(a *app.Context) *Detail {
	ctx, cancel := context.WithCancel(context.Background())
	return &Detail{
		app:       a,
		ctx:       ctx,
		cancel:    cancel,
		state:     StateLoading,
		copiedFor: CopiedDuration,
	}
}

// scope ties a caller's context to the view's lifetime
func (d *Detail) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(d.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (d *Detail) closed() bool {
	return d.ctx.Err() != nil
}

// Open loads the collection and its cards concurrently
func (d *Detail) Open(ctx context.Context, collectionID uint) error {
	if collectionID == 0 {
		d.app.Navigate(app.RouteLogin)
		return ErrPrecondition
	}
	if err := requireUser(d.app); err != nil {
		return err
	}

	d.mu.Lock()
	d.id = collectionID
	d.state = StateLoading
	d.mu.Unlock()

	ctx, done := d.scope(ctx)
	defer done()

	collection, cards, err := d.fetch(ctx, collectionID)

	d.mu.Lock()
	if d.closed() {
		d.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		d.err = err
		if errors.Is(err, client.ErrNotFound) {
			d.state = StateNotFound
		} else {
			d.state = StateError
		}
		d.mu.Unlock()

		if errors.Is(err, client.ErrNotFound) {
			d.app.Notify(app.KindError, d.app.T("collection.notFound"))
		} else {
			d.app.Notify(app.KindError, message(d.app, err))
		}
		d.app.Navigate(app.RouteCollections)
		return err
	}

	d.apply(collection, cards)
	d.state = StateReady
	d.mu.Unlock()
	return nil
}

// fetch reads collection metadata and cards in parallel
func (d *Detail) fetch(ctx context.Context, id uint) (*models.Collection, []models.Card, error) {
	g, gctx := errgroup.WithContext(ctx)

	var collection *models.Collection
	var cards []models.Card
	g.Go(func() error {
		var err error
		collection, err = d.app.API.GetCollection(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		cards, err = d.app.API.GetCardsByCollection(gctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return collection, cards, nil
}

// apply replaces local state with server state. d.mu must be held.
func (d *Detail) apply(collection *models.Collection, cards []models.Card) {
	d.collection = *collection
	d.cards = cards
	d.rate = decimal.NewFromFloat(collection.ExchangeRate)
	d.err = nil
}

// reload refreshes after a write that already succeeded. A failed reload is
// reported but does not fail the write.
func (d *Detail) reload(ctx context.Context) {
	if err := d.refresh(ctx); err != nil && !errors.Is(err, ErrClosed) {
		d.app.Notify(app.KindError, message(d.app, err))
	}
}

// refresh re-reads collection and cards together after a write
func (d *Detail) refresh(ctx context.Context) error {
	collection, cards, err := d.fetch(ctx, d.id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed() {
		return ErrClosed
	}
	if err != nil {
		return err
	}
	d.apply(collection, cards)
	return nil
}

func (d *Detail) ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == StateReady
}

// SetExchangeRate shows the new rate immediately and saves it in the
// background. A failed save is reported but the local rate is kept.
func (d *Detail) SetExchangeRate(rate decimal.Decimal) error {
	d.mu.Lock()
	if d.state != StateReady {
		d.mu.Unlock()
		return ErrNotReady
	}
	d.rate = rate
	d.collection.ExchangeRate = rate.InexactFloat64()
	id := d.id
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		updated, err := d.app.API.UpdateCollectionExchangeRate(d.ctx, id, rate.InexactFloat64())
		if d.closed() {
			return
		}
		if err != nil {
			d.app.Logger.Warn("exchange rate update failed", slog.Uint64("collection_id", uint64(id)), slog.Any("error", err))
			d.mu.Lock()
			d.saveErr = err
			d.mu.Unlock()
			d.app.Notify(app.KindError, message(d.app, err))
			return
		}

		// Last response wins
		d.mu.Lock()
		d.saveErr = nil
		d.collection.ExchangeRate = updated.ExchangeRate
		d.collection.PriceUSD = updated.PriceUSD
		d.rate = decimal.NewFromFloat(updated.ExchangeRate)
		d.mu.Unlock()
		d.app.Notify(app.KindSuccess, d.app.T("collection.rateUpdated"))
	}()
	return nil
}

// AddCard submits a card and reloads the list from the server. Nothing is
// inserted locally.
func (d *Detail) AddCard(ctx context.Context, req models.AddCardRequest) error {
	if !d.ready() {
		return ErrNotReady
	}
	ctx, done := d.scope(ctx)
	defer done()

	req.CollectionID = d.id
	if _, err := d.app.API.AddCardToCollection(ctx, req); err != nil {
		if d.closed() {
			return ErrClosed
		}
		d.app.Notify(app.KindError, message(d.app, err))
		return err
	}

	if d.closed() {
		return ErrClosed
	}
	d.app.Notify(app.KindSuccess, d.app.T("collection.cardAdded"))
	d.reload(ctx)
	return nil
}

// RemoveCard drops the card locally first, then deletes it on the server.
// A failed delete is reported and the card stays removed locally.
func (d *Detail) RemoveCard(ctx context.Context, cardID uint) error {
	d.mu.Lock()
	if d.state != StateReady {
		d.mu.Unlock()
		return ErrNotReady
	}
	d.cards = slices.DeleteFunc(slices.Clone(d.cards), func(c models.Card) bool { return c.ID == cardID })
	id := d.id
	d.mu.Unlock()

	ctx, done := d.scope(ctx)
	defer done()

	if err := d.app.API.RemoveCardFromCollection(ctx, cardID, id); err != nil {
		if d.closed() {
			return ErrClosed
		}
		d.app.Notify(app.KindError, message(d.app, err))
		return err
	}

	if d.closed() {
		return ErrClosed
	}
	d.app.Notify(app.KindSuccess, d.app.T("collection.cardRemoved"))
	// The collection total changed server side
	d.reload(ctx)
	return nil
}

// History fetches the collection's value snapshots
func (d *Detail) History(ctx context.Context, period string) ([]models.CollectionValueSnapshot, error) {
	if !d.ready() {
		return nil, ErrNotReady
	}
	ctx, done := d.scope(ctx)
	defer done()

	history, err := d.app.API.GetCollectionHistory(ctx, d.id, period)
	if err != nil {
		if d.closed() {
			return nil, ErrClosed
		}
		d.app.Notify(app.KindError, message(d.app, err))
		return nil, err
	}
	return history.Snapshots, nil
}

// Wait blocks until background rate writes have finished
func (d *Detail) Wait() {
	d.wg.Wait()
}

// SaveErr is the result of the last rate save to finish, nil on success
func (d *Detail) SaveErr() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saveErr
}

// Close cancels in-flight requests and waits for background writes
func (d *Detail) Close() {
	d.mu.Lock()
	d.state = StateClosed
	if d.copyTimer != nil {
		d.copyTimer.Stop()
	}
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}

// Snapshot returns a copy of the current state
func (d *Detail) Snapshot() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	amounts := currency.Format(decimal.NewFromFloat(d.collection.PriceUSD), d.rate)
	local, usd := currency.Money(amounts, d.app.Currency)
	return View{
		State:      d.state,
		Collection: d.collection,
		Cards:      slices.Clone(d.cards),
		Rate:       d.rate,
		CardCount:  models.TotalQuantity(d.cards),
		Amounts:    amounts,
		LocalMoney: local,
		USDMoney:   usd,
		Copied:     d.copied,
		Err:        d.err,
	}
}

// RateLadder is the fixed list of selectable rates, 7.0 to 8.0 by 0.1. Other
// rates can still be set directly.
func RateLadder() []decimal.Decimal {
	return currency.Ladder(decimal.NewFromInt(7), decimal.NewFromInt(8), decimal.New(1, -1))
}

// Share copies the collection link to clip and shows the acknowledgement
// for CopiedDuration.
func (d *Detail) Share(clip Clipboard) (string, error) {
	if !d.ready() {
		return "", ErrNotReady
	}
	link := export.ShareURL(d.app.Config.ShareBaseURL, d.id)
	if err := clip.WriteAll(link); err != nil {
		d.app.Notify(app.KindError, err.Error())
		return "", err
	}

	d.mu.Lock()
	d.copied = true
	if d.copyTimer != nil {
		d.copyTimer.Stop()
	}
	d.copyTimer = time.AfterFunc(d.copiedFor, func() {
		d.mu.Lock()
		d.copied = false
		d.mu.Unlock()
	})
	d.mu.Unlock()

	d.app.Notify(app.KindSuccess, d.app.T("collection.linkCopied"))
	return link, nil
}

// Document builds the PDF report from the cards currently shown
func (d *Detail) Document() export.Document {
	v := d.Snapshot()
	t := d.app.T
	return export.Document{
		Title:      v.Collection.Title,
		LocalValue: v.LocalMoney,
		USDValue:   v.USDMoney,
		CardCount:  v.CardCount,
		Cards:      v.Cards,
		Labels: export.Labels{
			Subtitle:      t("export.subtitle"),
			TotalValue:    t("collection.totalValue"),
			NumberOfCards: t("collection.numberOfCards"),
			Name:          t("card.name"),
			SetNumber:     t("card.setNumber"),
			SetName:       t("card.setName"),
			Condition:     t("card.condition"),
			Language:      t("card.language"),
			Version:       t("card.version"),
			Quantity:      t("card.quantity"),
		},
		GeneratedAt: time.Now(),
	}
}

// ExportPDF writes the report to w
func (d *Detail) ExportPDF(w io.Writer) error {
	if !d.ready() {
		return ErrNotReady
	}
	if err := export.WritePDF(w, d.Document()); err != nil {
		d.app.Notify(app.KindError, d.app.T("export.failed"))
		return err
	}
	return nil
}
