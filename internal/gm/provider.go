// Package gm produces Game Master turns from a large language model.
package gm

import (
	"context"
	"fmt"

	"github.com/Aditya-1301/AI-TTRPG/internal/config"
	"github.com/Aditya-1301/AI-TTRPG/internal/store"
)

// Message is one provider-agnostic entry of conversation history.
type Message struct {
	Role    string // store.RoleUser or store.RoleGM
	Content string
}

// Provider is the unified interface for turn-generation backends.
// Implementations: AnthropicProvider, OpenAIProvider.
type Provider interface {
	// Identity
	Name() string
	Model() string

	// GenerateTurn produces the next GM turn from the ordered history.
	// A returned error means no turn was produced; callers must not
	// persist anything in that case.
	GenerateTurn(ctx context.Context, history []Message, systemPrompt string) (string, error)
}

// NewProvider creates a provider instance from config.
// Dispatches to the appropriate constructor based on cfg.Driver.
func NewProvider(cfg config.GMConfig) (Provider, error) {
	switch cfg.Driver {
	case "anthropic":
		return NewAnthropicProvider(cfg)
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown gm driver: %s", cfg.Driver)
	}
}

// FromStored converts stored messages to provider-agnostic history.
func FromStored(messages []store.Message) []Message {
	history := make([]Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, Message{Role: m.Role, Content: m.Content})
	}
	return history
}
