package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const (
	helpSignedOut = `Available commands:
  categories | quotes [category] | search <text> | random [n] | like <n>
  favorites | unfav <n> | prefs | set <key> <value>
  signup | login | forgot | link <url> | exit`
	helpSignedIn = `Available commands:
  categories | quotes [category] | search <text> | random [n] | like <n>
  favorites | unfav <n> | sync
  collections | newcol <name> | delcol <n> | showcol <n> | addto <col> <quote> | rmitem <col> <item>
  profile | name <full name> | avatar <path> | password
  prefs | set <key> <value> | logout | exit`
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	SignUp(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	ForgotPassword(ctx context.Context, args []string) error
	OpenLink(ctx context.Context, args []string) error
	ChangePassword(ctx context.Context, args []string) error

	Categories(ctx context.Context, args []string) error
	Browse(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Random(ctx context.Context, args []string) error
	Like(ctx context.Context, args []string) error

	Favorites(ctx context.Context, args []string) error
	Unfavorite(ctx context.Context, args []string) error
	Sync(ctx context.Context, args []string) error

	Collections(ctx context.Context, args []string) error
	NewCollection(ctx context.Context, args []string) error
	DeleteCollection(ctx context.Context, args []string) error
	ShowCollection(ctx context.Context, args []string) error
	AddToCollection(ctx context.Context, args []string) error
	RemoveFromCollection(ctx context.Context, args []string) error

	Profile(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Avatar(ctx context.Context, args []string) error

	Prefs(ctx context.Context, args []string) error
	SetPref(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the dailyquote CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and passes the remaining tokens to the handler. Unknown commands
// are reported back to the user. The loop exits on scanner EOF or when the
// user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers
// report their own failures. This keeps the REPL loop resilient and
// focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("dq %s> ", statusFn()))
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
				printlnFn(helpSignedOut)
			}

		case "signup", "register":
			_ = a.SignUp(ctx, args)
		case "login":
			_ = a.Login(ctx, args)
		case "logout":
			_ = a.Logout(ctx, args)
		case "forgot":
			_ = a.ForgotPassword(ctx, args)
		case "link":
			_ = a.OpenLink(ctx, args)
		case "password":
			_ = a.ChangePassword(ctx, args)

		case "categories":
			_ = a.Categories(ctx, args)
		case "q", "quotes":
			_ = a.Browse(ctx, args)
		case "search":
			_ = a.Search(ctx, args)
		case "random":
			_ = a.Random(ctx, args)
		case "like", "unlike":
			_ = a.Like(ctx, args)

		case "fav", "favorites":
			_ = a.Favorites(ctx, args)
		case "unfav":
			_ = a.Unfavorite(ctx, args)
		case "sync":
			_ = a.Sync(ctx, args)

		case "cols", "collections":
			_ = a.Collections(ctx, args)
		case "newcol":
			_ = a.NewCollection(ctx, args)
		case "delcol":
			_ = a.DeleteCollection(ctx, args)
		case "showcol":
			_ = a.ShowCollection(ctx, args)
		case "addto":
			_ = a.AddToCollection(ctx, args)
		case "rmitem":
			_ = a.RemoveFromCollection(ctx, args)

		case "profile":
			_ = a.Profile(ctx, args)
		case "name":
			_ = a.Rename(ctx, args)
		case "avatar":
			_ = a.Avatar(ctx, args)

		case "prefs":
			_ = a.Prefs(ctx, args)
		case "set":
			_ = a.SetPref(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
