package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-storefront-client/cart"
	"github.com/jrsteele09/go-storefront-client/catalog"
	"github.com/jrsteele09/go-storefront-client/gateway"
	"github.com/jrsteele09/go-storefront-client/internal/config"
	"github.com/jrsteele09/go-storefront-client/orders"
	"github.com/jrsteele09/go-storefront-client/routeguard"
	"github.com/jrsteele09/go-storefront-client/session"
	"github.com/jrsteele09/go-storefront-client/session/credstore/filestore"
	"github.com/jrsteele09/go-storefront-client/users"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	setupLogging()

	cfg := config.New()
	app, err := newApp(cfg)
	if err != nil {
		return err
	}

	rootCmd := newRootCmd(app, cfg)
	return rootCmd.Execute()
}

func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	level := zerolog.WarnLevel
	if parsed, err := zerolog.ParseLevel(config.GetEnv("STOREFRONT_LOG_LEVEL", "warn")); err == nil {
		level = parsed
	}
	zerolog.SetGlobalLevel(level)
}

// app wires the SDK: one gateway, the three stores, and the resource clients.
type app struct {
	gw      *gateway.Client
	session *session.Store
	cart    *cart.Store
	catalog *catalog.Client
	orders  *orders.Client
	users   *users.Client
	guard   *routeguard.Guard
}

func newApp(cfg config.Config) (*app, error) {
	gw, err := gateway.New(cfg)
	if err != nil {
		return nil, err
	}

	creds, err := filestore.New(cfg.GetDataFolder(), []byte(config.GetEnv("STOREFRONT_PASSPHRASE", "storefront-local")))
	if err != nil {
		return nil, err
	}

	sessionStore, err := session.New(gw, creds)
	if err != nil {
		return nil, err
	}

	cartStore, err := cart.New(gw)
	if err != nil {
		return nil, err
	}

	catalogClient, err := catalog.NewClient(gw)
	if err != nil {
		return nil, err
	}

	ordersClient, err := orders.NewClient(gw)
	if err != nil {
		return nil, err
	}

	usersClient, err := users.NewClient(gw)
	if err != nil {
		return nil, err
	}

	return &app{
		gw:      gw,
		session: sessionStore,
		cart:    cartStore,
		catalog: catalogClient,
		orders:  ordersClient,
		users:   usersClient,
		guard:   routeguard.New(cfg),
	}, nil
}

func displayAppName(appName string) {
	myFigure := figure.NewFigure(appName, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
