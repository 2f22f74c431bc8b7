package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophcart/internal/cart"
	"github.com/dmitrijs2005/gophcart/internal/catalog"
	"github.com/dmitrijs2005/gophcart/internal/config"
	"github.com/dmitrijs2005/gophcart/internal/docstore/backend"
	"github.com/dmitrijs2005/gophcart/internal/localdb"
	"github.com/dmitrijs2005/gophcart/internal/logging"
	"github.com/dmitrijs2005/gophcart/internal/media"
	"github.com/dmitrijs2005/gophcart/internal/seed"
	"github.com/dmitrijs2005/gophcart/internal/session"
)

// NewFromConfig opens the configured store and wires the services into an
// App reading from in and writing to out. Logs go to stderr. An in-process
// store is seeded with the demo data. Without an S3 bucket image uploads
// are disabled.
func NewFromConfig(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	money, err := NewMoney(cfg.Currency, cfg.Locale)
	if err != nil {
		return nil, err
	}

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	closers := []func() error{store.Close}

	var images catalog.ImagePublisher
	if cfg.S3Bucket != "" {
		images = media.NewS3Publisher(media.Config{
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		}, nil)
	}

	carts := cart.New(store, cfg.CartsCollection, log)
	products := catalog.New(store, cfg.ProductsCollection, images, log)

	var opts []session.Option
	if cfg.RememberSession {
		db, err := localdb.Open(ctx, cfg.LocalDBPath)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		closers = append(closers, db.Close)
		opts = append(opts, session.WithRememberedSession(db.Metadata, cfg.SessionTTL))
	}
	sessions := session.New(store, cfg.UsersCollection, carts, log, opts...)

	app := NewApp(sessions, carts, products, money, log, in, out)
	app.closers = closers

	if backend.IsEphemeral(cfg) {
		data, err := seed.Default()
		if err == nil {
			_, err = seed.Apply(ctx, data, sessions, products)
		}
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	return app, nil
}
