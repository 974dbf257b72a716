// Package game runs the plain-text gameplay loop. It owns the terminal
// for its whole lifetime; the session manager TUI suspends itself and
// launches this loop as a child process.
package game

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Aditya-1301/AI-TTRPG/internal/gm"
	. "github.com/Aditya-1301/AI-TTRPG/internal/logging"
	"github.com/Aditya-1301/AI-TTRPG/internal/store"
)

// ResumeEnvVar carries the session UUID from the session manager to
// the game process.
const ResumeEnvVar = "TTRPG_RESUME_SESSION"

const divider = "---------------------------------------------------"

// Game is one run of the gameplay loop.
type Game struct {
	store    store.Store
	provider gm.Provider

	historyBudget int

	in       *bufio.Scanner
	out      io.Writer
	renderer *glamour.TermRenderer

	session *store.Session
	history []gm.Message
}

// New creates a gameplay loop bound to stdin/stdout.
func New(st store.Store, provider gm.Provider, historyBudget int) *Game {
	g := &Game{
		store:         st,
		provider:      provider,
		historyBudget: historyBudget,
		in:            bufio.NewScanner(os.Stdin),
		out:           os.Stdout,
	}

	// Markdown rendering is best effort; without a renderer we print
	// the GM's text raw.
	if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100)); err == nil {
		g.renderer = r
	} else {
		L_warn("game: markdown renderer unavailable", "error", err)
	}

	return g
}

// Run executes the loop. resumeUUID, when non-empty, skips the session
// picker and resumes that session directly; otherwise the loop starts
// with the interactive /new-/resume prompt.
func (g *Game) Run(ctx context.Context, resumeUUID string) error {
	if resumeUUID != "" {
		if err := g.resume(ctx, resumeUUID); err != nil {
			g.printf("Failed to load session %s: %v\n", resumeUUID, err)
			L_error("game: auto-resume failed", "uuid", resumeUUID, "error", err)
			return err
		}
	}

	for {
		if g.session == nil {
			quit, err := g.pickSession(ctx)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}

		if len(g.history) == 0 {
			if err := g.openingTurn(ctx); err != nil {
				return err
			}
		}

		if restart := g.playLoop(ctx); !restart {
			return nil
		}
		g.session = nil
		g.history = nil
	}
}

// resume loads a session and its history.
func (g *Game) resume(ctx context.Context, uuid string) error {
	sess, err := g.store.GetSessionByUUID(ctx, uuid)
	if err != nil {
		return err
	}
	messages, err := g.store.ListMessages(ctx, sess.ID)
	if err != nil {
		return err
	}

	g.session = sess
	g.history = gm.FromStored(messages)
	L_info("game: session resumed", "uuid", uuid, "messages", len(messages))

	g.printf("\n--- Session Resumed ---\n")
	if last := lastGMMessage(g.history); last != "" {
		g.printf("GM:\n")
		g.printGM(last)
	}
	return nil
}

// pickSession is the initialization prompt: the player chooses /new,
// /resume, /list, /help or /exit. Returns quit=true on /exit.
func (g *Game) pickSession(ctx context.Context) (bool, error) {
	g.printf("\nWelcome to the AI TTRPG!\n")
	g.printf("Type '/new' to start, '/resume [uuid]' to continue, '/list' to see saved games, or '/help' for all commands.\n")

	for {
		input, ok := g.readLine("> ")
		if !ok {
			return true, nil
		}
		if input == "" {
			continue
		}

		cmd, arg := parseCommand(input)
		switch cmd {
		case "/new":
			sess, err := g.store.CreateSession(ctx)
			if err != nil {
				g.printf("Could not create a session: %v\n", err)
				L_error("game: create session failed", "error", err)
				continue
			}
			g.session = sess
			g.printf("Started a new game. Your session UUID is: %s\n", sess.UUID)
			return false, nil

		case "/resume":
			if arg == "" {
				g.printf("Usage: /resume [session_uuid]\n")
				continue
			}
			if err := g.resume(ctx, arg); err != nil {
				g.printf("Failed to load session %s: %v\n", arg, err)
				continue
			}
			return false, nil

		case "/list":
			g.listSessions(ctx)

		case "/help":
			g.printHelp()

		case "/exit", "/pause":
			g.printf("Exiting application.\n")
			return true, nil

		default:
			g.printf("Invalid command. Please type '/new', '/resume [uuid]', '/list', or '/help'.\n")
		}
	}
}

// openingTurn seeds a brand-new session: the opening instruction goes
// out as the first player message and the GM's greeting comes back.
func (g *Game) openingTurn(ctx context.Context) error {
	opening := strings.TrimSpace(gm.OpeningInstruction)
	if err := g.takeTurn(ctx, opening, false); err != nil {
		g.printf("The GM is unavailable right now: %v\n", err)
		L_error("game: opening turn failed", "error", err)
		return err
	}
	return nil
}

// playLoop is the main gameplay loop. Returns restart=true when the
// player asked for a fresh session via /new.
func (g *Game) playLoop(ctx context.Context) bool {
	for {
		g.printf("\n\nYour Turn:\n")
		input, ok := g.readLine("> ")
		if !ok {
			return false
		}
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			action, restart, quit := g.handleCommand(ctx, input)
			if quit {
				return false
			}
			if restart {
				return true
			}
			if action == "" {
				continue
			}
			input = action
		}

		if err := g.takeTurn(ctx, input, true); err != nil {
			g.printf("Failed to get GM response. Your turn was not saved. Please try again.\n")
			L_error("game: turn failed", "error", err)
		}
	}
}

// takeTurn sends the pending player input plus history to the GM.
// Nothing is persisted unless the turn succeeds, so a failed turn
// leaves the saved history exactly as it was. echo controls whether
// the turn banner is printed.
func (g *Game) takeTurn(ctx context.Context, playerInput string, echo bool) error {
	pending := append(append([]gm.Message{}, g.history...), gm.Message{
		Role:    store.RoleUser,
		Content: playerInput,
	})

	trimmed := gm.TrimToBudget(pending, g.historyBudget)
	response, err := g.provider.GenerateTurn(ctx, trimmed, g.systemPrompt())
	if err != nil {
		return err
	}

	if err := g.store.AppendMessage(ctx, g.session.ID, store.RoleUser, playerInput); err != nil {
		return fmt.Errorf("failed to save player turn: %w", err)
	}
	if err := g.store.AppendMessage(ctx, g.session.ID, store.RoleGM, response); err != nil {
		return fmt.Errorf("failed to save GM turn: %w", err)
	}

	g.history = append(pending, gm.Message{Role: store.RoleGM, Content: response})

	if echo {
		g.printf("\n%s\n", divider)
	}
	g.printf("GM:\n")
	g.printGM(response)
	return nil
}

// systemPrompt returns the session's prompt override, or the default
// persona.
func (g *Game) systemPrompt() string {
	if g.session != nil && g.session.SystemPrompt != "" {
		return g.session.SystemPrompt
	}
	return gm.DefaultPersona
}

// printGM renders a GM turn as markdown, falling back to plain text.
func (g *Game) printGM(text string) {
	if g.renderer != nil {
		if rendered, err := g.renderer.Render(text); err == nil {
			fmt.Fprint(g.out, rendered)
			return
		}
	}
	g.printf("%s\n", text)
}

func (g *Game) printf(format string, args ...interface{}) {
	fmt.Fprintf(g.out, format, args...)
}

// readLine prompts and reads one trimmed line. ok=false on EOF.
func (g *Game) readLine(prompt string) (string, bool) {
	fmt.Fprint(g.out, prompt)
	if !g.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(g.in.Text()), true
}

func lastGMMessage(history []gm.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == store.RoleGM {
			return history[i].Content
		}
	}
	return ""
}
