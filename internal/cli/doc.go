// Package cli is the interactive GophCart shell.
//
// It reads one command per line, applies the navigation guard (guests may
// only ask for help, register, log in or leave; logged-in users asking to
// register or log in are sent to the product list) and dispatches to the
// session, cart and catalog services. Results and failures are reported as
// short titled notifications.
//
// The shell is started with App.Run, which blocks until the user exits or
// input ends.
package cli
