package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
)

// InteractiveSessionCLI contains shared logic for interactive practice CLIs
type InteractiveSessionCLI struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	green        *color.Color
	yellow       *color.Color
	red          *color.Color
}

// newInteractiveSessionCLI creates the base CLI with shared initialization
func newInteractiveSessionCLI() *InteractiveSessionCLI {
	return &InteractiveSessionCLI{
		stdinReader:  bufio.NewReader(os.Stdin),
		stdoutWriter: os.Stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		green:        color.New(color.FgGreen),
		yellow:       color.New(color.FgYellow),
		red:          color.New(color.FgRed),
	}
}

//go:generate mockgen -source=interactive_session_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

type Session interface {
	Session(context context.Context) error
}

var (
	errEnd = errors.New("end")
)

func (cli *InteractiveSessionCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Println("Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// readAnswer reads lines until a lone blank line or EOF. It returns errEnd
// when the user types "quit" or "exit" as the first line.
func (cli *InteractiveSessionCLI) readAnswer() (string, error) {
	var lines []string
	for {
		line, err := cli.stdinReader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				break
			}
			if errors.Is(err, io.EOF) {
				return "", errEnd
			}
			return "", fmt.Errorf("error reading input: %w", err)
		}
		line = strings.TrimRight(line, "\n")
		if len(lines) == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "quit" || trimmed == "exit" {
				return "", errEnd
			}
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
