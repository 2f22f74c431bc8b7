package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophcart/internal/flagx"
)

// parseFlags applies the command-line flags this package owns. Other flags
// are filtered out beforehand so the REPL and seed tool can share argv.
func parseFlags(cfg *Config, args []string) error {
	own := flagx.FilterArgs(args, []string{"-b", "-s", "-d", "-p", "-l", "-r", "-t", "-v"})

	fs := flag.NewFlagSet("gophcart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.StoreBackend, "b", cfg.StoreBackend, "document store backend (memory, sqlite, postgres, firestore)")
	fs.StringVar(&cfg.SQLiteDSN, "s", cfg.SQLiteDSN, "sqlite DSN")
	fs.StringVar(&cfg.PostgresDSN, "d", cfg.PostgresDSN, "postgres DSN")
	fs.StringVar(&cfg.FirestoreProjectID, "p", cfg.FirestoreProjectID, "firestore project id")
	fs.StringVar(&cfg.LocalDBPath, "l", cfg.LocalDBPath, "local client database path")
	fs.BoolVar(&cfg.RememberSession, "r", cfg.RememberSession, "remember session between runs")
	fs.DurationVar(&cfg.SessionTTL, "t", cfg.SessionTTL, "remembered session lifetime")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	return fs.Parse(own)
}
