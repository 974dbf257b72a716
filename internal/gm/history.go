package gm

import (
	"github.com/Aditya-1301/AI-TTRPG/internal/tokens"

	. "github.com/Aditya-1301/AI-TTRPG/internal/logging"
)

// DefaultHistoryBudget is the token budget for conversation history
// sent with each turn request.
const DefaultHistoryBudget = 60000

// TrimToBudget drops the oldest messages so the history fits within
// the token budget. The very first message is always kept: it carries
// the campaign setup, and losing it derails the GM entirely. The most
// recent messages are kept in preference to older ones.
func TrimToBudget(history []Message, budget int) []Message {
	if budget <= 0 {
		budget = DefaultHistoryBudget
	}
	if len(history) <= 1 {
		return history
	}

	est := tokens.Get()

	total := 0
	costs := make([]int, len(history))
	for i, msg := range history {
		costs[i] = est.CountMessage(msg.Content)
		total += costs[i]
	}
	if total <= budget {
		return history
	}

	// Reserve the first message, then take the largest suffix that fits.
	remaining := budget - costs[0]
	start := len(history)
	used := 0
	for i := len(history) - 1; i >= 1; i-- {
		if used+costs[i] > remaining {
			break
		}
		used += costs[i]
		start = i
	}

	trimmed := make([]Message, 0, 1+len(history)-start)
	trimmed = append(trimmed, history[0])
	trimmed = append(trimmed, history[start:]...)

	L_debug("gm: trimmed history to budget",
		"messages", len(history), "kept", len(trimmed), "tokens", total, "budget", budget)
	return trimmed
}
