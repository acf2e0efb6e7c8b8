package listener

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

const (
	DefaultBanner = "Welcome to Tycoon! Type 'help' for commands, 'quit' to leave.\n"
	prompt        = "> "
)

// runSession reads commands line by line until the player quits, the
// connection drops or ctx is cancelled.
func (m *ConnectionManager) runSession(ctx context.Context, rw io.ReadWriter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if _, err := io.WriteString(rw, m.banner); err != nil {
		return err
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(rw)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		if _, err := io.WriteString(rw, prompt); err != nil {
			return err
		}

		var line string
		select {
		case <-ctx.Done():
			io.WriteString(rw, "\nServer shutting down.\n")
			return nil
		case err := <-readErr:
			if err == nil || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case line = <-lines:
		}

		line = strings.TrimSpace(line)
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			_, err := io.WriteString(rw, "Bye!\n")
			return err
		}

		out := m.responder.Respond(ctx, line)
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if _, err := io.WriteString(rw, out); err != nil {
			return err
		}
	}
}
