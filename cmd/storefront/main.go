package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/cart"
	"storefront/internal/catalogfile"
	"storefront/internal/config"
	"storefront/internal/gateway"
	"storefront/internal/metrics"
	"storefront/internal/nav"
	"storefront/internal/session"
	"storefront/internal/storage"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

const usage = `usage: storefront <command> [flags]

commands:
  catalog   [-search text] [-category id]
  buy       <product-id>
  cart      [set <index> <quantity> | remove <index>]
  checkout  -name n -email e -phone p
  login     -email e -password p
  register  -email e -password p
  logout
  review    [-order id -rating 1-5 -text t]
  links
  admin     products [-edit id [-name .. -description .. -price .. -weight .. -category ..] [-seo]]
  admin     orders [-status id] [-order id -set status-id]
  admin     reviews
  admin     init [-file location]
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return flag.ErrHelp
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger, "storefront")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { err = multierr.Append(err, store.Close()) }()

	sess := session.New(store, logger)
	navigator := nav.NewNavigator(sess, logger)
	sess.SetRedirector(navigator)

	reg := prometheus.NewRegistry()
	api, err := gateway.New(gateway.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, sess, metrics.NewRequestMetrics(reg), logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	c := cart.New(store, logger)
	c.Load(ctx)

	a := &app{
		out:    os.Stdout,
		logger: logger,
		store:  store,
		sess:   sess,
		nav:    navigator,
		api:    api,
		cart:   c,
		loader: catalogfile.Open(ctx, cfg.S3, logger),
	}

	err = a.dispatch(ctx, args)
	if gateway.IsCanceled(err) {
		logger.Info().Msg("interrupted")
	}

	if cfg.Metrics.File != "" {
		if werr := metrics.WriteTextfile(cfg.Metrics.File, reg); werr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to write metrics: %w", werr))
		}
	}
	return err
}
