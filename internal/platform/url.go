package platform

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// URLScheme is the scheme accepted for external commands.
const URLScheme = "tomatobar"

var (
	ErrMalformedURL   = errors.New("malformed command url")
	ErrUnknownScheme  = errors.New("unknown url scheme")
	ErrUnknownCommand = errors.New("unknown command")
)

// Command is an action requested from outside the process.
type Command string

const (
	CommandStartStop Command = "startstop"
)

var knownCommands = map[string]Command{
	string(CommandStartStop): CommandStartStop,
}

// CommandURL returns the URL form of command.
func CommandURL(command Command) string {
	return URLScheme + "://" + string(command)
}

// ParseCommandURL maps a URL such as tomatobar://startstop to a Command.
// Scheme and host compare case-insensitively.
func ParseCommandURL(raw string) (Command, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if parsed.Scheme == "" {
		return "", fmt.Errorf("%w: %q has no scheme", ErrMalformedURL, raw)
	}
	if !strings.EqualFold(parsed.Scheme, URLScheme) {
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, parsed.Scheme)
	}

	command, ok := knownCommands[strings.ToLower(parsed.Host)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, parsed.Host)
	}
	return command, nil
}
