package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	cli "github.com/urfave/cli/v2"

	"github.com/PhilipFalla/pokecollect-gui/internal/config"
	"github.com/PhilipFalla/pokecollect-gui/internal/currency"
	"github.com/PhilipFalla/pokecollect-gui/internal/export"
	"github.com/PhilipFalla/pokecollect-gui/internal/flow"
	"github.com/PhilipFalla/pokecollect-gui/internal/i18n"
	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

// fail turns a flow error into an exit. Flows have already notified the
// user, so only the exit code matters except for a missing login.
func fail(e *env, err error) error {
	if errors.Is(err, flow.ErrPrecondition) {
		return cli.Exit(e.app.T("auth.loginRequired"), 1)
	}
	return cli.Exit("", 1)
}

func idArg(cctx *cli.Context, n int, name string) (uint, error) {
	v := cctx.Args().Get(n)
	id, err := strconv.ParseUint(v, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", name, v)
	}
	return uint(id), nil
}

// openDetail opens the collection named by the first argument
func openDetail(cctx *cli.Context) (*env, *flow.Detail, error) {
	e := getEnv(cctx)
	id, err := idArg(cctx, 0, "collection id")
	if err != nil {
		return nil, nil, err
	}
	d := flow.NewDetail(e.app)
	if err := d.Open(cctx.Context, id); err != nil {
		d.Close()
		return nil, nil, fail(e, err)
	}
	return e, d, nil
}

var credentialFlags = []cli.Flag{
	&cli.StringFlag{Name: "email", Required: true},
	&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"POKECOLLECT_PASSWORD"}},
}

var signupCmd = &cli.Command{
	Name:  "signup",
	Usage: "create an account and log in",
	Flags: credentialFlags,
	Action: func(cctx *cli.Context) error {
		e := getEnv(cctx)
		if _, err := flow.NewSession(e.app).Signup(cctx.Context, cctx.String("email"), cctx.String("password")); err != nil {
			return fail(e, err)
		}
		return nil
	},
}

var loginCmd = &cli.Command{
	Name:  "login",
	Usage: "log in and remember the session",
	Flags: credentialFlags,
	Action: func(cctx *cli.Context) error {
		e := getEnv(cctx)
		if _, err := flow.NewSession(e.app).Login(cctx.Context, cctx.String("email"), cctx.String("password")); err != nil {
			return fail(e, err)
		}
		return nil
	},
}

var logoutCmd = &cli.Command{
	Name: "logout",
	Action: func(cctx *cli.Context) error {
		return flow.NewSession(getEnv(cctx).app).Logout()
	},
}

var deleteAccountCmd = &cli.Command{
	Name:  "delete-account",
	Usage: "delete your account and every collection in it",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Usage: "confirm deletion"},
	},
	Action: func(cctx *cli.Context) error {
		if !cctx.Bool("yes") {
			return fmt.Errorf("refusing to delete account without --yes")
		}
		e := getEnv(cctx)
		if err := flow.NewSession(e.app).DeleteAccount(cctx.Context); err != nil {
			return fail(e, err)
		}
		return nil
	},
}

var collectionsCmd = &cli.Command{
	Name:  "collections",
	Usage: "list your collections",
	Action: func(cctx *cli.Context) error {
		e := getEnv(cctx)
		rows, err := flow.NewDashboard(e.app).Load(cctx.Context)
		if err != nil {
			return fail(e, err)
		}
		if len(rows) == 0 {
			fmt.Fprintln(e.out, e.app.T("dashboard.noCollections"))
			fmt.Fprintln(e.out, e.app.T("dashboard.noCollectionsDesc"))
			return nil
		}

		t := e.app.T
		w := tabwriter.NewWriter(e.out, 4, 4, 2, ' ', 0)
		fmt.Fprintf(w, "ID\t%s\t%s\tUSD\t%s\n", t("dashboard.collection"), e.app.Currency.Code, t("dashboard.created"))
		for _, r := range rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Collection.ID, r.Title, r.LocalMoney, r.USDMoney, r.Created)
		}
		return w.Flush()
	},
}

var createCmd = &cli.Command{
	Name:      "create",
	Usage:     "create an empty collection",
	ArgsUsage: "<title>",
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() != 1 {
			return fmt.Errorf("must pass the collection title")
		}
		e := getEnv(cctx)
		c, err := flow.NewDashboard(e.app).Create(cctx.Context, cctx.Args().First())
		if err != nil {
			return fail(e, err)
		}
		fmt.Fprintf(e.out, "%d\t%s\n", c.ID, c.Title)
		return nil
	},
}

var showCmd = &cli.Command{
	Name:      "show",
	Usage:     "show a collection and its cards",
	ArgsUsage: "<collection id>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "filter", Usage: "fuzzy filter on card name and set"},
	},
	Action: func(cctx *cli.Context) error {
		e, d, err := openDetail(cctx)
		if err != nil {
			return err
		}
		defer d.Close()

		v := d.Snapshot()
		t := e.app.T
		fmt.Fprintf(e.out, "%s\n\n", v.Collection.Title)
		fmt.Fprintf(e.out, "%s %s\n", t("collection.totalValue")+":", v.LocalMoney)
		fmt.Fprintf(e.out, "%s %s\n", "USD:", v.USDMoney)
		fmt.Fprintf(e.out, "%s %s\n", t("collection.exchangeRate"), v.Rate.String())
		fmt.Fprintf(e.out, "%s: %d\n\n", t("collection.numberOfCards"), v.CardCount)

		cards := flow.FilterCards(v.Cards, cctx.String("filter"))
		if len(cards) == 0 {
			fmt.Fprintln(e.out, t("collection.empty"))
			return nil
		}

		w := tabwriter.NewWriter(e.out, 4, 4, 2, ' ', 0)
		fmt.Fprintf(w, "ID\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t("card.name"), t("card.setNumber"), t("card.setName"), t("card.condition"),
			t("card.language"), t("card.version"), t("card.quantity"), t("card.value"))
		for _, c := range cards {
			local, _ := currency.Money(currency.Format(decimal.NewFromFloat(c.ValueUSD), v.Rate), e.app.Currency)
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
				c.ID, c.Name, c.SetNumber, c.SetName, c.Condition, c.Language, c.Version, c.Quantity, local)
		}
		return w.Flush()
	},
}

var rateCmd = &cli.Command{
	Name:      "rate",
	Usage:     "set a collection's exchange rate",
	ArgsUsage: "<collection id> <rate>",
	Action: func(cctx *cli.Context) error {
		rate, err := currency.ParseRate(cctx.Args().Get(1))
		if err != nil {
			return err
		}
		e, d, err := openDetail(cctx)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.SetExchangeRate(rate); err != nil {
			return fail(e, err)
		}
		d.Wait()
		if err := d.SaveErr(); err != nil {
			return fail(e, err)
		}
		return nil
	},
}

var ratesCmd = &cli.Command{
	Name:  "rates",
	Usage: "list the suggested exchange rates",
	Action: func(cctx *cli.Context) error {
		e := getEnv(cctx)
		for _, r := range flow.RateLadder() {
			fmt.Fprintln(e.out, r.StringFixed(1))
		}
		return nil
	},
}

var addCardCmd = &cli.Command{
	Name:      "add-card",
	Usage:     "add a card to a collection",
	ArgsUsage: "<collection id>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "name", Required: true},
		&cli.StringFlag{Name: "set", Usage: "set name"},
		&cli.StringFlag{Name: "number", Usage: "number in set, e.g. 4/102"},
		&cli.StringFlag{Name: "condition", Value: "NM", Usage: "NM, LP, MP, HP or DMG"},
		&cli.StringFlag{Name: "language", Value: "EN", Usage: "EN, JP, ES, DE, FR or IT"},
		&cli.IntFlag{Name: "quantity", Value: 1},
		&cli.StringFlag{Name: "edition", Usage: "edition or version label"},
		&cli.PathFlag{Name: "image", Usage: "photo of the card"},
	},
	Action: func(cctx *cli.Context) error {
		condition, err := models.ParseCondition(cctx.String("condition"))
		if err != nil {
			return err
		}
		language := models.NormalizeLanguage(cctx.String("language"))
		if language.ID() == 0 {
			return fmt.Errorf("unknown card language %q", cctx.String("language"))
		}

		req := models.AddCardRequest{
			ConditionID: condition.ID(),
			LanguageID:  language.ID(),
			Quantity:    cctx.Int("quantity"),
			CardName:    cctx.String("name"),
			SetName:     cctx.String("set"),
			NumberInSet: cctx.String("number"),
			Edition:     cctx.String("edition"),
		}
		if path := cctx.Path("image"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			req.ImageData = base64.StdEncoding.EncodeToString(data)
		}

		e, d, err := openDetail(cctx)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.AddCard(cctx.Context, req); err != nil {
			return fail(e, err)
		}
		v := d.Snapshot()
		fmt.Fprintf(e.out, "%s: %d  %s\n", e.app.T("collection.numberOfCards"), v.CardCount, v.LocalMoney)
		return nil
	},
}

var removeCardCmd = &cli.Command{
	Name:      "remove-card",
	Usage:     "remove a card from a collection",
	ArgsUsage: "<collection id> <card id>",
	Action: func(cctx *cli.Context) error {
		cardID, err := idArg(cctx, 1, "card id")
		if err != nil {
			return err
		}
		e, d, err := openDetail(cctx)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.RemoveCard(cctx.Context, cardID); err != nil {
			return fail(e, err)
		}
		return nil
	},
}

var exportCmd = &cli.Command{
	Name:      "export",
	Usage:     "save a collection as a PDF",
	ArgsUsage: "<collection id>",
	Flags: []cli.Flag{
		&cli.PathFlag{Name: "out", Usage: "output file (default <title>_collection.pdf)"},
	},
	Action: func(cctx *cli.Context) error {
		e, d, err := openDetail(cctx)
		if err != nil {
			return err
		}
		defer d.Close()

		path := cctx.Path("out")
		if path == "" {
			path = export.FileName(d.Snapshot().Collection.Title)
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := d.ExportPDF(f); err != nil {
			f.Close()
			return fail(e, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintln(e.out, e.app.Translator.Tf("export.saved", path))
		return nil
	},
}

var shareCmd = &cli.Command{
	Name:      "share",
	Usage:     "print the public link to a collection",
	ArgsUsage: "<collection id>",
	Action: func(cctx *cli.Context) error {
		e, d, err := openDetail(cctx)
		if err != nil {
			return err
		}
		defer d.Close()

		if _, err := d.Share(stdoutClipboard{out: e.out}); err != nil {
			return fail(e, err)
		}
		return nil
	},
}

var langCmd = &cli.Command{
	Name:      "lang",
	Usage:     "show or set the display language",
	ArgsUsage: "[EN|ES]",
	Action: func(cctx *cli.Context) error {
		e := getEnv(cctx)
		if cctx.Args().Len() == 0 {
			fmt.Fprintln(e.out, e.app.Translator.Language())
			return nil
		}

		lang, err := i18n.ParseLanguage(cctx.Args().First())
		if err != nil {
			return err
		}

		// Persist only the language, not flag or env overrides
		cfg, err := config.Load(e.configPath)
		if err != nil {
			return err
		}
		cfg.Language = string(lang)
		if err := config.Save(e.configPath, cfg); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		e.app.Translator.SetLanguage(lang)
		fmt.Fprintf(e.out, "%s: %s\n", e.app.T("settings.appLanguage"), lang)
		return nil
	},
}

var importCmd = &cli.Command{
	Name:  "import",
	Usage: "bulk import cards from a file",
	Action: func(cctx *cli.Context) error {
		return cli.Exit(getEnv(cctx).app.T("import.notImplemented"), 2)
	},
}

var historyCmd = &cli.Command{
	Name:      "history",
	Usage:     "show a collection's daily value",
	ArgsUsage: "<collection id>",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "period", Value: "month", Usage: "week, month, 3month, year or all"},
	},
	Action: func(cctx *cli.Context) error {
		e, d, err := openDetail(cctx)
		if err != nil {
			return err
		}
		defer d.Close()

		snapshots, err := d.History(cctx.Context, cctx.String("period"))
		if err != nil {
			return fail(e, err)
		}
		rate := d.Snapshot().Rate

		fmt.Fprintln(e.out, e.app.T("collection.history"))
		w := tabwriter.NewWriter(e.out, 4, 4, 2, ' ', 0)
		for _, s := range snapshots {
			local, usd := currency.Money(currency.Format(decimal.NewFromFloat(s.TotalValue), rate), e.app.Currency)
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.SnapshotDate.Format("2006-01-02"), s.TotalCards, local, usd)
		}
		return w.Flush()
	},
}
