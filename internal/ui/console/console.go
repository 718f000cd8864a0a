// Package console is a line-oriented front-end for running without a tray.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"tomatobar/internal/core/model"
	"tomatobar/internal/core/timekeeper"
	"tomatobar/internal/log"
	"tomatobar/internal/pubsub"
)

// Controller is the subset of the TimeKeeper the console drives.
type Controller interface {
	StartStop() error
	HandleNotificationAction(action timekeeper.Action) error
	SelectPreset(kind model.PresetKind) error
	Snapshot() (timekeeper.Snapshot, error)
}

// Console reads commands from in and prints session updates to out. It
// implements timekeeper.StatusDisplay and timekeeper.Notifier.
type Console struct {
	mu         sync.Mutex
	out        io.Writer
	in         io.Reader
	controller Controller
}

// New creates a console. Call Attach before Run.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out}
}

// Attach sets the controller commands are sent to.
func (console *Console) Attach(controller Controller) {
	console.controller = controller
}

func (console *Console) SetIcon(timekeeper.Icon) {}

// SetTitle is unused; progress arrives through events.
func (console *Console) SetTitle(string) {}

func (console *Console) Send(notification timekeeper.Notification) {
	console.println(renderNotification(notification))
}

// Run processes input until q, end of input or ctx cancellation, printing
// events as they arrive.
func (console *Console) Run(ctx context.Context, events <-chan pubsub.Event[timekeeper.Event]) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(console.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	console.println(helpText)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			console.show(event.Payload)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := console.execute(line); quit {
				return nil
			}
		}
	}
}

func (console *Console) show(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventStateChange, timekeeper.EventPresetChange:
		console.println(renderStatus(event))
	case timekeeper.EventProgress:
		// Print once a minute to keep the scrollback readable.
		if strings.HasSuffix(event.RemainingText, ":00") {
			console.println(renderStatus(event))
		}
	}
}

// execute runs one command line and reports whether to quit.
func (console *Console) execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		console.printStatus()
		return false
	}

	var err error
	switch strings.ToLower(fields[0]) {
	case "q", "quit":
		return true
	case "s", "start", "stop":
		err = console.controller.StartStop()
	case "k", "skip":
		err = console.controller.HandleNotificationAction(timekeeper.ActionSkipRest)
	case "p", "preset":
		if len(fields) < 2 {
			err = fmt.Errorf("usage: p <preset>")
			break
		}
		var kind model.PresetKind
		if kind, err = model.ParsePresetKind(fields[1]); err == nil {
			err = console.controller.SelectPreset(kind)
		}
	case "?", "h", "help":
		console.println(helpText)
	default:
		err = fmt.Errorf("unknown command %q, ? for help", fields[0])
	}

	if err != nil {
		log.Debug(log.CatUI, "console command failed", "line", line, "error", err)
		console.println(subtleStyle.Render("error: " + err.Error()))
	}
	return false
}

func (console *Console) printStatus() {
	snapshot, err := console.controller.Snapshot()
	if err != nil {
		console.println(subtleStyle.Render("error: " + err.Error()))
		return
	}
	console.println(renderSnapshot(snapshot))
}

func (console *Console) println(text string) {
	console.mu.Lock()
	defer console.mu.Unlock()
	_, _ = fmt.Fprintln(console.out, text)
}
