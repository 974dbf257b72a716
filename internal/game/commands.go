package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aditya-1301/AI-TTRPG/internal/dice"
	. "github.com/Aditya-1301/AI-TTRPG/internal/logging"
)

// parseCommand splits "/cmd arg words" into a lowercased command and
// its raw argument.
func parseCommand(input string) (cmd, arg string) {
	parts := strings.SplitN(strings.TrimSpace(input), " ", 2)
	cmd = strings.ToLower(parts[0])
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}
	return cmd, arg
}

// handleCommand processes an in-game slash command.
// action, when non-empty, is player input the command produced (e.g. a
// dice roll) and should be played as a normal turn. restart requests a
// fresh session; quit ends the loop.
func (g *Game) handleCommand(ctx context.Context, input string) (action string, restart, quit bool) {
	cmd, arg := parseCommand(input)

	switch cmd {
	case "/exit", "/pause":
		g.printf("Game paused. To resume, relaunch and use:\n/resume %s\n", g.session.UUID)
		return "", false, true

	case "/new":
		g.printf("Restarting to create a new game...\n")
		return "", true, false

	case "/resume":
		if arg == "" {
			g.printf("Usage: /resume [session_uuid]\n")
			return "", false, false
		}
		if arg == g.session.UUID {
			g.printf("You are already in that session.\n")
			return "", false, false
		}
		g.printf("Attempting to resume session %s...\n", arg)
		if err := g.resume(ctx, arg); err != nil {
			g.printf("Failed to load session %s: %v\n", arg, err)
		}
		return "", false, false

	case "/list":
		g.listSessions(ctx)
		return "", false, false

	case "/delete":
		if arg == "" {
			g.printf("Usage: /delete [session_uuid]\n")
			return "", false, false
		}
		g.deleteSession(ctx, arg)
		return "", false, false

	case "/reset":
		return g.resetSession(ctx), false, false

	case "/roll":
		roll := dice.D20()
		g.printf("You rolled a D20 and got a %d.\n", roll)
		return fmt.Sprintf("I rolled a D20 and got a %d. What happens?", roll), false, false

	case "/help":
		g.printHelp()
		return "", false, false

	default:
		g.printf("Unknown command. Type /help for a list of commands.\n")
		return "", false, false
	}
}

// deleteSession deletes another saved session after confirmation. The
// active session is protected.
func (g *Game) deleteSession(ctx context.Context, uuid string) {
	if uuid == g.session.UUID {
		g.printf("Cannot delete the active session. Use /new or /exit first.\n")
		return
	}

	answer, ok := g.readLine(fmt.Sprintf("Are you sure you want to permanently delete session %s? (y/n) > ", uuid))
	if !ok || !strings.EqualFold(answer, "y") {
		g.printf("Deletion cancelled.\n")
		return
	}

	if err := g.store.DeleteSession(ctx, uuid); err != nil {
		g.printf("Could not delete session: %v\n", err)
		L_error("game: delete failed", "uuid", uuid, "error", err)
		return
	}
	g.printf("Session %s has been deleted.\n", uuid)
}

// resetSession wipes the current session's history after confirmation
// and returns the restart instruction to play as the next turn.
func (g *Game) resetSession(ctx context.Context) string {
	answer, ok := g.readLine(fmt.Sprintf("Are you sure you want to reset all history for session %s? (y/n) > ", g.session.UUID))
	if !ok || !strings.EqualFold(answer, "y") {
		g.printf("Reset cancelled.\n")
		return ""
	}

	if err := g.store.DeleteMessages(ctx, g.session.ID); err != nil {
		g.printf("Error: Could not reset session history: %v\n", err)
		L_error("game: reset failed", "error", err)
		return ""
	}

	g.history = nil
	g.printf("Session has been reset.\n")
	return "The session has been reset. Greet me again and ask me what I want to do."
}

func (g *Game) listSessions(ctx context.Context) {
	sessions, err := g.store.ListSessions(ctx)
	if err != nil {
		g.printf("Could not list sessions: %v\n", err)
		L_error("game: list failed", "error", err)
		return
	}
	if len(sessions) == 0 {
		g.printf("No saved sessions found.\n")
		return
	}

	g.printf("\n--- Saved Sessions ---\n")
	for _, s := range sessions {
		g.printf("UUID: %s (Created: %s)\n", s.UUID, s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func (g *Game) printHelp() {
	g.printf(`
Available Commands:
/new                     - Start a new game session.
/resume [session_uuid]   - Resume a saved game session.
/list                    - List all saved game session UUIDs.
/delete [session_uuid]   - Delete a game session (cannot be the active one).
/reset                   - Wipes and restarts the CURRENT game session.
/exit or /pause          - Exits the application.
/roll                    - Roll a D20 for a skill check.
/help                    - Displays this help message.
`)
}
