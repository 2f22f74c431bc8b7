package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophcart/internal/models"
)

var errUsage = errors.New("usage")

func parseID(args []string, usage string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	return id, nil
}

// Products refetches the catalog and prints it.
func (a *App) Products(ctx context.Context) error {
	if err := a.catalog.FetchAll(ctx); err != nil {
		notifyError(a.out, "Products", err)
		return err
	}
	renderProducts(a.out, a.money, a.catalog.List())
	return nil
}

// product looks id up locally and refetches the catalog once on a miss.
func (a *App) product(ctx context.Context, id int) (models.Product, bool) {
	if p, ok := a.catalog.Get(id); ok {
		return p, true
	}
	if err := a.catalog.FetchAll(ctx); err != nil {
		return models.Product{}, false
	}
	return a.catalog.Get(id)
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		notify(a.out, "Usage", "show <id>")
		return err
	}
	p, ok := a.product(ctx, id)
	if !ok {
		notify(a.out, "Products", fmt.Sprintf("No product with id %d.", id))
		return nil
	}
	renderProduct(a.out, a.money, p)
	return nil
}

func (a *App) AddProduct(ctx context.Context) error {
	p, err := a.promptProduct(ctx, models.Product{}, true)
	if err != nil {
		notifyError(a.out, "Add product", err)
		return err
	}
	if err := a.catalog.Add(ctx, p); err != nil {
		notifyError(a.out, "Add product", err)
		return err
	}
	notify(a.out, "Add product", fmt.Sprintf("Product %d added.", p.ID))
	return nil
}

func (a *App) EditProduct(ctx context.Context, args []string) error {
	id, err := parseID(args, "editproduct <id>")
	if err != nil {
		notify(a.out, "Usage", "editproduct <id>")
		return err
	}
	current, ok := a.product(ctx, id)
	if !ok {
		notify(a.out, "Edit product", fmt.Sprintf("No product with id %d.", id))
		return nil
	}

	p, err := a.promptProduct(ctx, current, false)
	if err != nil {
		notifyError(a.out, "Edit product", err)
		return err
	}
	if err := a.catalog.Update(ctx, p); err != nil {
		notifyError(a.out, "Edit product", err)
		return err
	}
	notify(a.out, "Edit product", fmt.Sprintf("Product %d updated.", p.ID))
	return nil
}

func (a *App) RemoveProduct(ctx context.Context, args []string) error {
	id, err := parseID(args, "removeproduct <id>")
	if err != nil {
		notify(a.out, "Usage", "removeproduct <id>")
		return err
	}
	if err := a.catalog.Remove(ctx, id); err != nil {
		notifyError(a.out, "Remove product", err)
		return err
	}
	notify(a.out, "Remove product", fmt.Sprintf("Product %d removed.", id))
	return nil
}

// promptProduct asks for every product field. Empty answers keep the value
// of base. The id is only asked for when askID is set.
func (a *App) promptProduct(ctx context.Context, base models.Product, askID bool) (models.Product, error) {
	p := base

	if askID {
		s, err := getSimpleText(a.reader, "Product id", a.out)
		if err != nil {
			return p, err
		}
		if p.ID, err = strconv.Atoi(s); err != nil {
			return p, fmt.Errorf("product id must be a number")
		}
	}

	name, err := a.ask("Name", base.Name)
	if err != nil {
		return p, err
	}
	p.Name = name

	price, err := a.ask("Price", strconv.FormatFloat(base.Price, 'f', -1, 64))
	if err != nil {
		return p, err
	}
	if p.Price, err = strconv.ParseFloat(price, 64); err != nil || p.Price < 0 {
		return p, fmt.Errorf("price must be a non-negative number")
	}

	if p.Description, err = a.ask("Description", base.Description); err != nil {
		return p, err
	}

	image, err := a.ask("Image URL or local file", base.Image)
	if err != nil {
		return p, err
	}
	if p.Image, err = a.resolveImage(ctx, image); err != nil {
		return p, err
	}
	return p, nil
}

func (a *App) ask(label, current string) (string, error) {
	prompt := label
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", label, current)
	}
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if s == "" {
		return current, nil
	}
	return s, nil
}

// resolveImage keeps URLs as they are and publishes local files.
func (a *App) resolveImage(ctx context.Context, image string) (string, error) {
	if image == "" || strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image, nil
	}

	body, err := os.ReadFile(image)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	url, err := a.catalog.PublishImage(ctx, filepath.Base(image), body)
	if err != nil {
		return "", err
	}
	notify(a.out, "Image", "Uploaded to "+url)
	return url, nil
}
