package tui

import (
	"errors"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aditya-1301/AI-TTRPG/internal/game"
	. "github.com/Aditya-1301/AI-TTRPG/internal/logging"
)

// playDoneMsg reports the game process result back to the controller.
type playDoneMsg struct {
	uuid string
	err  error
}

// playSession hands the terminal to the blocking game process and
// resumes the TUI when it exits. bubbletea leaves its rendering mode
// before the child starts and restores it afterwards, on every exit
// path, so the terminal is never left raw.
//
// The session to resume travels out of band in the environment.
func playSession(selfPath, uuid string) tea.Cmd {
	cmd := exec.Command(selfPath, "play")
	cmd.Env = append(os.Environ(), game.ResumeEnvVar+"="+uuid)

	L_info("bridge: handing terminal to game process", "uuid", uuid)

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return playDoneMsg{uuid: uuid, err: err}
	})
}

// exitStatus extracts the child's exit code, if the error carries one.
func exitStatus(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
