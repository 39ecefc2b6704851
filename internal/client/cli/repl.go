package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	promptOpen() bool
	report(err error)

	Home(ctx context.Context) error
	Login(ctx context.Context) error
	SignUp(ctx context.Context) error
	Logout(ctx context.Context) error
	Dashboard(ctx context.Context) error
	CreateProfile(ctx context.Context) error
	ShowProfile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	NewJourney(ctx context.Context) error
	Surprise(ctx context.Context) error
	History(ctx context.Context) error
	Open(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	FAQ(ctx context.Context, query string) error
	Chat(ctx context.Context) error
	Export(ctx context.Context) error
	Share(ctx context.Context) error
	Data(ctx context.Context) error
	ResetData(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: home, login, signup, faq, data, data reset, help, exit"
	helpSignedIn  = "Available commands: dashboard, profile, profile edit, new, surprise, history, open <id>, delete <id>, chat, export, share, faq, data, data reset, logout, help, exit"
)

// runREPL starts a simple read–eval–print loop for the Smart Voyage client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Errors returned by handlers are passed to
// a.report. The loop exits on EOF or when the user types "exit" or "quit".
//
// While the profile prompt is open only logout, help and exit are honoured;
// anything else runs the profile creation form.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "voyage %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if a.promptOpen() {
			switch cmd {
			case "logout", "exit", "quit", "help":
			default:
				a.report(a.CreateProfile(ctx))
				continue
			}
		}

		switch cmd {
		case "help":
			switch {
			case a.promptOpen():
				fmt.Fprintln(out, "Complete your profile to continue. You can also logout or exit.")
			case a.isLoggedIn():
				fmt.Fprintln(out, helpSignedIn)
			default:
				fmt.Fprintln(out, helpAnonymous)
			}

		case "home":
			a.report(a.Home(ctx))

		case "login":
			a.report(a.Login(ctx))

		case "signup", "register":
			a.report(a.SignUp(ctx))

		case "logout":
			a.report(a.Logout(ctx))

		case "dashboard":
			a.report(a.Dashboard(ctx))

		case "profile":
			if len(args) > 0 && args[0] == "edit" {
				a.report(a.EditProfile(ctx))
			} else {
				a.report(a.ShowProfile(ctx))
			}

		case "new":
			a.report(a.NewJourney(ctx))

		case "surprise":
			a.report(a.Surprise(ctx))

		case "history":
			a.report(a.History(ctx))

		case "open", "delete":
			if len(args) == 0 {
				fmt.Fprintf(out, "Usage: %s <id>\n", cmd)
				continue
			}
			if cmd == "open" {
				a.report(a.Open(ctx, args[0]))
			} else {
				a.report(a.Delete(ctx, args[0]))
			}

		case "faq":
			a.report(a.FAQ(ctx, strings.Join(args, " ")))

		case "chat":
			a.report(a.Chat(ctx))

		case "export", "download":
			a.report(a.Export(ctx))

		case "share":
			a.report(a.Share(ctx))

		case "data":
			if len(args) > 0 && args[0] == "reset" {
				a.report(a.ResetData(ctx))
			} else {
				a.report(a.Data(ctx))
			}

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
