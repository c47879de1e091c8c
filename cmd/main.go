package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"spotnet/cmd/dashboard"
	"spotnet/cmd/portfolio"
	"spotnet/src/connectors"
	"spotnet/src/database"
	"spotnet/src/model"
	"spotnet/src/repository"
	"spotnet/src/serializer"
	"spotnet/src/tokens"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "Spotnet CMD"
	app.Usage = "The Spotnet command line interface"
	app.Version = Version
	app.Before = setupEnv

	app.Commands = []cli.Command{
		dashboardCMD,
		initDBCMD,
		positionsCMD,
		airdropsCMD,
		registerCMD,
		positionStatusCMD,
		claimCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	dashboardCMD = cli.Command{
		Name:      "dashboard",
		Usage:     "validate a dashboard payload",
		Action:    dashboardAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "file, f", Usage: "payload file, stdin when empty"},
		},
		Description: `Validate and normalize a zkLend dashboard response`,
	}
	initDBCMD = cli.Command{
		Name:        "initdb",
		Usage:       "create database schema",
		Action:      initDBAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Create the status enum and the user, position and airdrop tables`,
	}
	positionsCMD = cli.Command{
		Name:      "positions",
		Usage:     "list positions of a wallet",
		Action:    positionsAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "wallet, w", Usage: "wallet id"},
			cli.StringFlag{Name: "status, s", Usage: "pending, opened or closed"},
		},
		Description: `List stored positions for a wallet`,
	}
	airdropsCMD = cli.Command{
		Name:      "airdrops",
		Usage:     "list unclaimed airdrops of a wallet",
		Action:    airdropsAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "wallet, w", Usage: "wallet id"},
		},
		Description: `List unclaimed airdrops for a wallet`,
	}
	registerCMD = cli.Command{
		Name:      "register",
		Usage:     "register a wallet",
		Action:    registerAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "wallet, w", Usage: "wallet id"},
		},
		Description: `Create a user for a wallet unless one exists`,
	}
	positionStatusCMD = cli.Command{
		Name:      "position_status",
		Usage:     "set the status of a position",
		Action:    positionStatusAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "id", Usage: "position id"},
			cli.StringFlag{Name: "status, s", Usage: "pending, opened or closed"},
		},
		Description: `Overwrite the status of a stored position`,
	}
	claimCMD = cli.Command{
		Name:      "claim",
		Usage:     "mark an airdrop as claimed",
		Action:    claimAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "id", Usage: "airdrop id"},
		},
		Description: `Mark an airdrop as claimed now`,
	}
)

func setupEnv(_ *cli.Context) error {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("No .env file loaded")
	}

	config := database.GetConfig()
	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(config.LogFormat, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func decimalsLookup() serializer.DecimalsLookup {
	registry := tokens.DefaultRegistry()
	config := connectors.GetConfig()
	if config.TokenMetadataURL == "" {
		return registry
	}
	return tokens.Chain{registry, connectors.NewTokenMetadataClient(config)}
}

func dashboardAction(c *cli.Context) error {
	logrus.Info("Starting dashboard CMD")

	var in io.Reader = os.Stdin
	if path := c.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signalContext()
	defer stop()

	d := &dashboard.Dashboard{
		Log:    logrus.WithField("cmd", "dashboard"),
		Lookup: decimalsLookup(),
		In:     in,
		Out:    os.Stdout,
	}
	if err := d.Start(ctx); err != nil {
		logrus.WithError(err).Error("Running dashboard cmd")
		return err
	}
	return nil
}

func initDBAction(_ *cli.Context) error {
	logrus.Info("Starting initdb CMD")
	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Error("Failed to initialize database")
		return err
	}
	return nil
}

func newPortfolio() (*portfolio.Portfolio, error) {
	if err := database.InitReadOnlyDB(); err != nil {
		logrus.WithError(err).Error("Failed to connect to read-only database")
		return nil, err
	}
	db := database.ReadOnlyDB
	return &portfolio.Portfolio{
		Log:       logrus.WithField("cmd", "portfolio"),
		Users:     repository.NewUserRepositoryWithDB(db),
		Positions: (&repository.PositionRepository{}).WithDB(db),
		AirDrops:  repository.NewAirDropRepositoryWithDB(db),
		Tokens:    tokens.DefaultRegistry(),
		Out:       os.Stdout,
	}, nil
}

func positionsAction(c *cli.Context) error {
	wallet := c.String("wallet")
	if wallet == "" {
		return cli.NewExitError("--wallet is required", 2)
	}

	p, err := newPortfolio()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	return p.ListPositions(ctx, wallet, c.String("status"))
}

func airdropsAction(c *cli.Context) error {
	wallet := c.String("wallet")
	if wallet == "" {
		return cli.NewExitError("--wallet is required", 2)
	}

	p, err := newPortfolio()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	return p.ListAirDrops(ctx, wallet)
}

func requireID(c *cli.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.String("id"))
	if err != nil {
		return uuid.Nil, cli.NewExitError(fmt.Sprintf("--id: %v", err), 2)
	}
	return id, nil
}

func registerAction(c *cli.Context) error {
	wallet := c.String("wallet")
	if wallet == "" {
		return cli.NewExitError("--wallet is required", 2)
	}
	if err := database.InitMainDB(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	users := repository.NewUserRepository()
	existing, err := users.GetByWalletID(ctx, wallet)
	if err != nil {
		return err
	}
	if existing != nil {
		logrus.WithField("user_id", existing.ID).Info("Wallet already registered")
		return nil
	}

	user := &model.User{WalletID: wallet}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "wallet_id": wallet}).Info("Wallet registered")
	return nil
}

func positionStatusAction(c *cli.Context) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}
	if err := database.InitMainDB(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	return repository.NewPositionRepository().UpdateStatus(ctx, id, model.PositionStatus(c.String("status")))
}

func claimAction(c *cli.Context) error {
	id, err := requireID(c)
	if err != nil {
		return err
	}
	if err := database.InitMainDB(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()
	return repository.NewAirDropRepository().MarkClaimed(ctx, id, time.Now())
}
