// Command seed loads the demo users and products into the configured
// document store. Pass -f to load a YAML file instead of the built-in data.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/gophcart/internal/cart"
	"github.com/dmitrijs2005/gophcart/internal/catalog"
	"github.com/dmitrijs2005/gophcart/internal/config"
	"github.com/dmitrijs2005/gophcart/internal/docstore/backend"
	"github.com/dmitrijs2005/gophcart/internal/flagx"
	"github.com/dmitrijs2005/gophcart/internal/logging"
	"github.com/dmitrijs2005/gophcart/internal/seed"
	"github.com/dmitrijs2005/gophcart/internal/session"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	file := fs.String("f", "", "seed data YAML file")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-f"})); err != nil {
		return err
	}

	data, err := seed.Default()
	if *file != "" {
		data, err = seed.LoadFile(*file)
	}
	if err != nil {
		return err
	}

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer store.Close()

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	carts := cart.New(store, cfg.CartsCollection, logger)
	users := session.New(store, cfg.UsersCollection, carts, logger)
	products := catalog.New(store, cfg.ProductsCollection, nil, logger)

	res, err := seed.Apply(ctx, data, users, products)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "users: %d created, %d skipped\n", res.UsersCreated, res.UsersSkipped)
	fmt.Fprintf(out, "products: %d created, %d skipped\n", res.ProductsCreated, res.ProductsSkipped)
	return nil
}
