package cli

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/gophcart/internal/logging"
	"github.com/dmitrijs2005/gophcart/internal/models"
)

type sessionService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Resume(ctx context.Context) (bool, error)
	IsLoggedIn() bool
	Username() string
}

type cartService interface {
	AddItem(ctx context.Context, product models.Product, amount int) error
	UpdateAmountText(ctx context.Context, productID int, raw string) error
	RemoveItem(ctx context.Context, productID int) error
	Checkout(ctx context.Context) ([]models.LineItem, error)
	Items() []models.LineItem
}

type catalogService interface {
	FetchAll(ctx context.Context) error
	List() []models.Product
	Get(id int) (models.Product, bool)
	Add(ctx context.Context, p models.Product) error
	Update(ctx context.Context, p models.Product) error
	Remove(ctx context.Context, id int) error
	PublishImage(ctx context.Context, name string, body []byte) (string, error)
}

type App struct {
	session sessionService
	cart    cartService
	catalog catalogService
	money   *Money
	log     logging.Logger

	reader *bufio.Reader
	out    io.Writer

	closers []func() error
}

func NewApp(session sessionService, cart cartService, catalog catalogService, money *Money,
	log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		session: session,
		cart:    cart,
		catalog: catalog,
		money:   money,
		log:     log.With("module", "cli"),
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Close releases the stores opened by NewFromConfig.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsLoggedIn()
}

func (a *App) status() string {
	if u := a.session.Username(); u != "" {
		return u
	}
	return "guest"
}

// Run resumes a remembered session if there is one, loads the catalog and
// runs the shell until exit.
func (a *App) Run(ctx context.Context) {
	notify(a.out, "Welcome", "GophCart shell, type 'help' for commands")

	if ok, err := a.session.Resume(ctx); err != nil {
		notifyError(a.out, "Session", err)
	} else if ok {
		notify(a.out, "Session", "Welcome back, "+a.session.Username())
	}

	if err := a.catalog.FetchAll(ctx); err != nil {
		notifyError(a.out, "Products", err)
	}

	a.log.Debug(ctx, "shell started", "user", a.status())
	runREPL(ctx, a, a.status, a.reader, a.out)
	a.log.Debug(ctx, "shell stopped", "user", a.status())
}
