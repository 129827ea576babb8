// Package terminal runs the chatbot as an interactive line-based session.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	loggerpkg "github.com/ryan-griego/career-chatbot-go/pkg/logger"
)

// SessionID names the single conversation a terminal drives.
const SessionID = "terminal"

// MaxLineBytes caps one input line. Longer lines are rejected and skipped.
const MaxLineBytes = 64 << 10

// ChatService is the conversation surface the REPL drives.
type ChatService interface {
	Reply(ctx context.Context, sessionID, input string) (string, error)
	Reset(sessionID string)
}

// Options configures REPL behavior.
type Options struct {
	Name    string
	Verbose bool
	Logger  loggerpkg.Logger
}

type line struct {
	text    string
	tooLong bool
	err     error
}

// Run reads visitor messages from in and writes replies to out until EOF,
// a quit command, or ctx cancellation.
func Run(ctx context.Context, chat ChatService, opts Options, in io.Reader, out io.Writer) error {
	if chat == nil {
		return errors.New("chat service is required")
	}
	if in == nil {
		return errors.New("input reader is required")
	}
	if out == nil {
		out = io.Discard
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loggerpkg.Debug(opts.Verbose, opts.Logger, "repl start", nil)

	reader := bufio.NewReader(in)
	lines := make(chan line)
	// Read on a separate goroutine so cancellation does not wait on input.
	go func() {
		defer close(lines)
		for {
			next := readLine(reader)
			if errors.Is(next.err, io.EOF) {
				return
			}
			select {
			case lines <- next:
			case <-ctx.Done():
				return
			}
			if next.err != nil {
				return
			}
		}
	}()

	printWelcome(out, opts.Name)

	for {
		_, _ = fmt.Fprint(out, "> ")

		var (
			next line
			ok   bool
		)
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(out)
			return nil
		case next, ok = <-lines:
		}
		if !ok {
			return nil
		}
		if next.err != nil {
			return fmt.Errorf("read input: %w", next.err)
		}
		if next.tooLong {
			_, _ = fmt.Fprintf(out, "Error: message too long (max %d bytes)\n\n", MaxLineBytes)
			continue
		}

		input := strings.TrimSpace(next.text)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := handleCommand(input, chat, out); quit {
				return nil
			}
			continue
		}

		reply, err := chat.Reply(ctx, SessionID, input)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			_, _ = fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}

		_, _ = fmt.Fprintf(out, "%s\n\n", reply)
	}
}

// readLine reads one line without its terminator. A line over MaxLineBytes is
// consumed in full and reported as tooLong. A final line without a newline is
// returned before io.EOF.
func readLine(r *bufio.Reader) line {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && (len(buf) > 0 || tooLong) {
				return line{text: string(buf), tooLong: tooLong}
			}
			return line{err: err}
		}
		if !tooLong {
			if len(buf)+len(chunk) > MaxLineBytes {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return line{text: string(buf), tooLong: tooLong}
		}
	}
}

func printWelcome(out io.Writer, name string) {
	title := "Career Chatbot"
	if name != "" {
		title = "Chat with " + name
	}
	_, _ = fmt.Fprintf(out, "=== %s ===\n", title)
	_, _ = fmt.Fprintln(out, "Type your message and press Enter. Commands:")
	printCommands(out)
}

// handleCommand runs a slash command and reports whether the REPL should stop.
func handleCommand(input string, chat ChatService, out io.Writer) bool {
	switch strings.ToLower(input) {
	case "/help", "/h":
		_, _ = fmt.Fprintln(out, "Commands:")
		printCommands(out)
		return false
	case "/clear", "/c":
		chat.Reset(SessionID)
		_, _ = fmt.Fprintln(out, "Conversation history cleared.")
		_, _ = fmt.Fprintln(out)
		return false
	case "/quit", "/exit", "/q":
		_, _ = fmt.Fprintln(out, "Goodbye!")
		return true
	default:
		_, _ = fmt.Fprintf(out, "Unknown command: %s. Type /help for available commands.\n\n", input)
		return false
	}
}

func printCommands(out io.Writer) {
	_, _ = fmt.Fprintln(out, "  /help  - Show this help message")
	_, _ = fmt.Fprintln(out, "  /clear - Clear conversation history")
	_, _ = fmt.Fprintln(out, "  /quit  - Exit the program")
	_, _ = fmt.Fprintln(out, "  /exit  - Exit the program")
	_, _ = fmt.Fprintln(out)
}
