package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Products(ctx context.Context) error { return f.record("products", nil) }
func (f *fakeExec) Show(ctx context.Context, args []string) error {
	return f.record("show", args)
}
func (f *fakeExec) AddToCart(ctx context.Context, args []string) error {
	return f.record("add", args)
}
func (f *fakeExec) Cart(ctx context.Context) error { return f.record("cart", nil) }
func (f *fakeExec) UpdateAmount(ctx context.Context, args []string) error {
	return f.record("update", args)
}
func (f *fakeExec) RemoveFromCart(ctx context.Context, args []string) error {
	return f.record("remove", args)
}
func (f *fakeExec) Checkout(ctx context.Context) error   { return f.record("checkout", nil) }
func (f *fakeExec) AddProduct(ctx context.Context) error { return f.record("addproduct", nil) }
func (f *fakeExec) EditProduct(ctx context.Context, args []string) error {
	return f.record("editproduct", args)
}
func (f *fakeExec) RemoveProduct(ctx context.Context, args []string) error {
	return f.record("removeproduct", args)
}

func runLines(exec *fakeExec, lines ...string) string {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, reader, &out)
	return out.String()
}

func TestGuard(t *testing.T) {
	cases := []struct {
		cmd      string
		loggedIn bool
		want     string
		notice   bool
	}{
		{cmd: "help", loggedIn: false, want: "help"},
		{cmd: "register", loggedIn: false, want: "register"},
		{cmd: "login", loggedIn: false, want: "login"},
		{cmd: "exit", loggedIn: false, want: "exit"},
		{cmd: "cart", loggedIn: false, want: "login", notice: true},
		{cmd: "products", loggedIn: false, want: "login", notice: true},
		{cmd: "checkout", loggedIn: false, want: "login", notice: true},
		{cmd: "login", loggedIn: true, want: "products", notice: true},
		{cmd: "register", loggedIn: true, want: "products", notice: true},
		{cmd: "cart", loggedIn: true, want: "cart"},
		{cmd: "logout", loggedIn: true, want: "logout"},
	}
	for _, tc := range cases {
		got, notice := guard(tc.cmd, tc.loggedIn)
		assert.Equal(t, tc.want, got, tc.cmd)
		assert.Equal(t, tc.notice, notice != "", tc.cmd)
	}
}

func TestRunREPL_DispatchesWithArguments(t *testing.T) {
	exec := &fakeExec{loggedIn: true}

	out := runLines(exec,
		"products",
		"show 2",
		"ADD 1 3",
		"cart",
		"update 1 5",
		"remove 1",
		"checkout",
		"addproduct",
		"editproduct 4",
		"removeproduct 4",
		"logout",
		"exit",
	)

	assert.Equal(t, []string{
		"products", "show", "add", "cart", "update", "remove",
		"checkout", "addproduct", "editproduct", "removeproduct", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"2"}, exec.args[1])
	assert.Equal(t, []string{"1", "3"}, exec.args[2])
	assert.Equal(t, []string{"1", "5"}, exec.args[4])
	assert.Contains(t, out, "Bye!")
	assert.Contains(t, out, "gophcart (status)> ")
}

func TestRunREPL_GuestIsSentToLogin(t *testing.T) {
	exec := &fakeExec{}

	out := runLines(exec, "help", "cart", "products", "exit")

	assert.Contains(t, out, guestHelp)
	assert.Contains(t, out, "[Navigation] Please log in first.")
	// the first redirect logs the fake in, so products runs directly
	assert.Equal(t, []string{"login", "products"}, exec.calls)
	assert.Nil(t, exec.args[0])
}

func TestRunREPL_LoggedInUserIsSentToProducts(t *testing.T) {
	exec := &fakeExec{loggedIn: true}

	out := runLines(exec, "help", "login", "register", "exit")

	assert.Contains(t, out, userHelp)
	assert.Contains(t, out, "[Navigation] You are already logged in.")
	assert.Equal(t, []string{"products", "products"}, exec.calls)
}

func TestRunREPL_UnknownAndBlankLines(t *testing.T) {
	exec := &fakeExec{loggedIn: true}

	out := runLines(exec, "", "   ", "foobar 1", "cart")

	assert.Contains(t, out, "Unknown command: foobar")
	assert.Equal(t, []string{"cart"}, exec.calls)
	assert.NotContains(t, out, "Bye!")
}

func TestRunREPL_StopsAtEndOfInput(t *testing.T) {
	exec := &fakeExec{}
	out := runLines(exec)
	assert.Empty(t, exec.calls)
	assert.Equal(t, "gophcart (status)> \n", out)
}
