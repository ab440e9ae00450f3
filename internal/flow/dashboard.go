package flow

import (
	"context"
	"strings"

	"github.com/PhilipFalla/pokecollect-gui/internal/app"
	"github.com/PhilipFalla/pokecollect-gui/internal/currency"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// Row is one collection on the dashboard, valued at its own rate
type Row struct {
	Collection models.Collection
	Title      string
	LocalMoney string
	USDMoney   string
	Created    string
}

type Dashboard struct {
	app *app.Context
}

func NewDashboard(a *app.Context) *Dashboard {
	return &Dashboard{app: a}
}

// Load lists the logged-in user's collections
func (d *Dashboard) Load(ctx context.Context) ([]Row, error) {
	if err := requireUser(d.app); err != nil {
		return nil, err
	}

	collections, err := d.app.API.GetCollectionsByUser(ctx, d.app.User().ID)
	if err != nil {
		d.app.Notify(app.KindError, message(d.app, err))
		return nil, err
	}

	rows := make([]Row, 0, len(collections))
	for _, c := range collections {
		local, usd := currency.Money(currency.FormatFloat(c.PriceUSD, c.ExchangeRate), d.app.Currency)
		rows = append(rows, Row{
			Collection: c,
			Title:      c.Title,
			LocalMoney: local,
			USDMoney:   usd,
			Created:    c.CreatedAt.Format("2006-01-02"),
		})
	}
	return rows, nil
}

// Create makes an empty collection at the configured default rate and
// opens it.
func (d *Dashboard) Create(ctx context.Context, title string) (*models.Collection, error) {
	if err := requireUser(d.app); err != nil {
		return nil, err
	}

	rate := d.app.Config.DefaultExchangeRate
	if rate <= 0 {
		rate = models.DefaultExchangeRate
	}
	collection, err := d.app.API.CreateCollection(ctx, models.CreateCollectionRequest{
		Title:        strings.TrimSpace(title),
		UserID:       d.app.User().ID,
		ExchangeRate: &rate,
	})
	if err != nil {
		d.app.Notify(app.KindError, message(d.app, err))
		return nil, err
	}

	d.app.Navigate(app.RouteCollection(collection.ID))
	return collection, nil
}
