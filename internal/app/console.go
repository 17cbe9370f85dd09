package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/vk/signupboard/internal/notify"
)

// consoleHelp documents the interactive commands. select/email edit the
// signup form draft; signup submits it.
const consoleHelp = `Commands:
  reload               Fetch activities and rebuild the option list.
  select N | NAME      Choose an activity by option number or name.
  email ADDRESS        Set the signup email.
  signup               Submit the signup form.
  remove N             Unregister the participant shown on row N.
  help                 Show this help.
  quit                 Leave the console.`

// console runs the interactive event loop: one line of input is one event.
// All work is sequential on this loop; the controller suppresses any stale
// fetch results should callers ever overlap requests.
func (a *App) console(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	a.controller.LoadActivities(ctx, true)
	fmt.Fprintln(a.outW, "\nType 'help' for commands.")

	scanner := bufio.NewScanner(a.inR)
	fmt.Fprint(a.outW, "> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		if quit := a.handleConsoleLine(ctx, scanner.Text()); quit {
			return nil
		}
		fmt.Fprint(a.outW, "> ")
	}
	return scanner.Err()
}

// handleConsoleLine dispatches one console event. It reports whether the
// session should end.
func (a *App) handleConsoleLine(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return true

	case "help":
		fmt.Fprintln(a.outW, consoleHelp)

	case "reload":
		a.controller.LoadActivities(ctx, true)

	case "select":
		if len(args) == 0 {
			a.notifier.Show("Usage: select N or select NAME", notify.Error)
			break
		}
		choice := strings.Join(args, " ")
		if n, err := strconv.Atoi(choice); err == nil {
			if !a.controller.Select("", n, true) {
				a.notifier.Show(fmt.Sprintf("No activity option %d", n), notify.Error)
			}
			break
		}
		if !a.controller.Select(choice, 0, false) {
			a.notifier.Show(fmt.Sprintf("No activity named %q", choice), notify.Error)
		}

	case "email":
		if len(args) != 1 {
			a.notifier.Show("Usage: email ADDRESS", notify.Error)
			break
		}
		a.controller.SetDraftEmail(args[0])

	case "signup":
		selection, email := a.controller.Draft()
		if selection == "" || email == "" {
			a.notifier.Show("Select an activity and set an email first", notify.Error)
			break
		}
		a.controller.SubmitSignup(ctx, selection, email)

	case "remove":
		if len(args) != 1 {
			a.notifier.Show("Usage: remove N", notify.Error)
			break
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			a.notifier.Show("Usage: remove N", notify.Error)
			break
		}
		row, ok := a.controller.RowAt(n)
		if !ok {
			a.notifier.Show(fmt.Sprintf("No participant row %d", n), notify.Error)
			break
		}
		a.controller.RemoveParticipant(ctx, row.Activity, row.Email)

	default:
		a.notifier.Show(fmt.Sprintf("Unknown command %q, type 'help'", cmd), notify.Error)
	}
	return false
}
