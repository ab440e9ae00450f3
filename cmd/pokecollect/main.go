package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v2"

	"github.com/PhilipFalla/pokecollect-gui/internal/app"
	"github.com/PhilipFalla/pokecollect-gui/internal/client"
	"github.com/PhilipFalla/pokecollect-gui/internal/config"
	"github.com/PhilipFalla/pokecollect-gui/internal/logger"
)

func main() {
	a := newApp(os.Stdout, os.Stderr)
	if err := a.Run(interspersed(a, os.Args)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out, errOut io.Writer) *cli.App {
	cliApp := cli.NewApp()

	cliApp.Writer = out
	cliApp.ErrWriter = errOut
	cliApp.Name = "pokecollect"
	cliApp.Usage = "catalogue trading card collections"
	cliApp.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to config.toml (default ~/.pokecollect/config.toml)",
		},
		&cli.StringFlag{
			Name:    "api",
			Usage:   "collection API base URL",
			EnvVars: []string{"POKECOLLECT_API_URL"},
		},
		&cli.StringFlag{
			Name:  "lang",
			Usage: "display language, EN or ES",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
	}
	cliApp.Commands = []*cli.Command{
		signupCmd,
		loginCmd,
		logoutCmd,
		deleteAccountCmd,
		collectionsCmd,
		createCmd,
		showCmd,
		rateCmd,
		ratesCmd,
		addCardCmd,
		removeCardCmd,
		exportCmd,
		shareCmd,
		langCmd,
		importCmd,
		historyCmd,
	}
	cliApp.Before = setup
	return cliApp
}

// env is what every command needs, built once in setup
type env struct {
	app        *app.Context
	configPath string
	out        io.Writer
}

func setup(cctx *cli.Context) error {
	cfgPath := cctx.String("config")
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if v := cctx.String("api"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := cctx.String("lang"); v != "" {
		cfg.Language = v
	}
	if v := cctx.String("log-level"); v != "" {
		if err := cfg.Log.Level.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid log level %q", v)
		}
	}

	log := logger.Setup(cfg.Log)

	sessionPath, err := cfg.SessionPath()
	if err != nil {
		return err
	}

	api := client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.HTTPTimeout()),
		client.WithLogger(log))

	out := cctx.App.Writer
	ui := &terminal{out: out, errOut: cctx.App.ErrWriter}
	a, err := app.New(cfg, api, ui, ui, sessionPath)
	if err != nil {
		return err
	}
	a.Logger = log

	cctx.App.Metadata = map[string]any{
		"env": &env{app: a, configPath: cfgPath, out: out},
	}
	return nil
}

func getEnv(cctx *cli.Context) *env {
	return cctx.App.Metadata["env"].(*env)
}

// terminal prints notifications. Each command is a single view, so
// navigation is only logged.
type terminal struct {
	out    io.Writer
	errOut io.Writer
}

func (t *terminal) Notify(n app.Notification) {
	switch n.Kind {
	case app.KindError:
		fmt.Fprintln(t.errOut, "error:", n.Message)
	default:
		fmt.Fprintln(t.out, n.Message)
	}
}

func (t *terminal) Navigate(route string) {
	slog.Debug("navigate", slog.String("route", route))
}

// stdoutClipboard prints the link; a terminal has no clipboard to write to
type stdoutClipboard struct {
	out io.Writer
}

func (c stdoutClipboard) WriteAll(text string) error {
	_, err := fmt.Fprintln(c.out, text)
	return err
}
