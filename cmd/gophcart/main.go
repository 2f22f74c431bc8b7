package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophcart/internal/cli"
	"github.com/dmitrijs2005/gophcart/internal/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewFromConfig(ctx, cfg, os.Stdin, os.Stdout)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	app.Run(ctx)

}
