// Package seed loads the demo users and products into a document store.
// Seeding goes through the session and catalog services, so it validates
// like any other registration and is safe to run more than once.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophcart/internal/common"
	"github.com/dmitrijs2005/gophcart/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var defaultData []byte

type Data struct {
	Users    []models.User    `yaml:"users"`
	Products []models.Product `yaml:"products"`
}

type Registrar interface {
	Register(ctx context.Context, username, password string) error
}

type ProductAdder interface {
	Add(ctx context.Context, p models.Product) error
}

// Result counts what Apply created and what was already there.
type Result struct {
	UsersCreated    int
	UsersSkipped    int
	ProductsCreated int
	ProductsSkipped int
}

func Default() (*Data, error) {
	return Parse(defaultData)
}

func Parse(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &d, nil
}

func Load(r io.Reader) (*Data, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read seed data: %w", err)
	}
	return Parse(b)
}

func LoadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed data: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Apply registers every user and adds every product. Entries that already
// exist are skipped; any other error stops the run.
func Apply(ctx context.Context, d *Data, users Registrar, products ProductAdder) (Result, error) {
	var res Result

	for _, u := range d.Users {
		err := users.Register(ctx, u.Username, u.Password)
		switch {
		case err == nil:
			res.UsersCreated++
		case errors.Is(err, common.ErrDuplicate):
			res.UsersSkipped++
		default:
			return res, fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	for _, p := range d.Products {
		err := products.Add(ctx, p)
		switch {
		case err == nil:
			res.ProductsCreated++
		case errors.Is(err, common.ErrDuplicate):
			res.ProductsSkipped++
		default:
			return res, fmt.Errorf("seed product %d: %w", p.ID, err)
		}
	}

	return res, nil
}
