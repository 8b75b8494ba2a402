package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hannes/kanoon/src/backend/chat"
)

const chatPrompt = "you> "

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the legal assistant in the terminal",
		Long: `Start an interactive conversation with the legal assistant.

Commands:
  /new    start a new conversation
  /quit   exit (Ctrl-D also works)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = "warn"
			}

			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			historyFile := ""
			if home, err := os.UserHomeDir(); err == nil {
				historyFile = filepath.Join(home, ".kanoon_history")
			}
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          chatPrompt,
				HistoryFile:     historyFile,
				InterruptPrompt: "^C",
				EOFPrompt:       "/quit",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize REPL: %w", err)
			}
			defer func() { _ = rl.Close() }()

			return newChatREPL(a.assistant, cmd.OutOrStdout(), markdownRenderer()).run(cmd.Context(), rl)
		},
	}
}

// lineReader is the part of readline.Instance the REPL uses
type lineReader interface {
	Readline() (string, error)
}

type chatREPL struct {
	assistant *chat.Assistant
	out       io.Writer
	render    func(string) string
	you       *color.Color
	bot       *color.Color
	warn      *color.Color
	conv      chat.Conversation
}

func newChatREPL(assistant *chat.Assistant, out io.Writer, render func(string) string) *chatREPL {
	if render == nil {
		render = func(s string) string { return s + "\n" }
	}
	return &chatREPL{
		assistant: assistant,
		out:       out,
		render:    render,
		you:       color.New(color.FgHiCyan, color.Bold),
		bot:       color.New(color.FgHiGreen, color.Bold),
		warn:      color.New(color.FgHiRed),
	}
}

func (r *chatREPL) run(ctx context.Context, rl lineReader) error {
	r.start()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if quit := r.handle(ctx, strings.TrimSpace(line)); quit {
			return nil
		}
	}
}

func (r *chatREPL) start() {
	r.conv = r.assistant.StartConversation()
	for _, msg := range r.conv.Messages {
		r.print(msg)
	}
}

// handle processes one input line and reports whether the REPL should exit
func (r *chatREPL) handle(ctx context.Context, line string) bool {
	switch line {
	case "":
		return false
	case "/quit", "/exit":
		return true
	case "/new":
		r.start()
		return false
	}

	msg, err := r.assistant.Reply(ctx, r.conv.ID, line)
	if errors.Is(err, chat.ErrSessionNotFound) {
		// Sessions expire after inactivity
		r.start()
		msg, err = r.assistant.Reply(ctx, r.conv.ID, line)
	}
	if err != nil {
		_, _ = r.warn.Fprintf(r.out, "Error: %v\n", err)
		return false
	}
	r.print(msg)
	return false
}

func (r *chatREPL) print(msg chat.Message) {
	if msg.Sender == chat.SenderUser {
		_, _ = r.you.Fprintln(r.out, "You:")
		_, _ = fmt.Fprintln(r.out, msg.Text)
		return
	}

	label := "Kanoon:"
	if msg.DocumentType != chat.DocumentNone {
		label = fmt.Sprintf("Kanoon (%s):", msg.DocumentType)
	}
	_, _ = r.bot.Fprintln(r.out, label)
	_, _ = fmt.Fprint(r.out, r.render(msg.Text))
	for _, src := range msg.Sources {
		_, _ = fmt.Fprintf(r.out, "  - %s <%s>\n", src.Title, src.URL)
	}
	_, _ = fmt.Fprintln(r.out)
}

// markdownRenderer renders bot replies for the terminal, falling back to
// plain text when glamour cannot be initialized
func markdownRenderer() func(string) string {
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil
	}
	return func(s string) string {
		out, err := tr.Render(s)
		if err != nil {
			return s + "\n"
		}
		return out
	}
}
