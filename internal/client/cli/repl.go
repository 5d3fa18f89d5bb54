package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Posts(ctx context.Context, args []string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	PageSize(ctx context.Context, args []string) error
	Lang(ctx context.Context, args []string) error
	Artists(ctx context.Context) error
	Filter(ctx context.Context, args []string) error
	Like(ctx context.Context, args []string) error
	Country(ctx context.Context, args []string) error
	Countries(ctx context.Context) error
	flushMessages()
}

const (
	helpAnonymous = "Available commands: login, posts [page], next, prev, size <n>, lang <code>, artists, filter [country], country <name>, countries, exit"
	helpSignedIn  = "Available commands: whoami, logout, posts [page], next, prev, size <n>, lang <code>, artists, filter [country], like <n>, country <name>, countries, exit"
)

// runREPL starts a simple read–eval–print loop for the artbook client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Messages queued by the command
// are flushed after it returns. The loop exits on scanner EOF or when the
// user types "exit" or "quit".
//
// Errors returned by command handlers are not printed here; the failure was
// already reported through the message queue or by the handler itself.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("artbook %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "posts", "p":
			_ = a.Posts(ctx, args)

		case "next", "n":
			_ = a.Next(ctx)

		case "prev":
			_ = a.Prev(ctx)

		case "size":
			_ = a.PageSize(ctx, args)

		case "lang":
			_ = a.Lang(ctx, args)

		case "artists", "a":
			_ = a.Artists(ctx)

		case "filter":
			_ = a.Filter(ctx, args)

		case "like":
			_ = a.Like(ctx, args)

		case "country":
			_ = a.Country(ctx, args)

		case "countries":
			_ = a.Countries(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		a.flushMessages()
	}
}
