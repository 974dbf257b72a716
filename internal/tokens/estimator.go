// Package tokens provides token estimation for conversation budgeting.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	. "github.com/Aditya-1301/AI-TTRPG/internal/logging"
)

// DefaultEncoding is cl100k_base, a reasonable estimate across the
// providers we talk to.
const DefaultEncoding = "cl100k_base"

// MessageOverhead is the per-message token cost of role and framing
// structure, on top of the content itself.
const MessageOverhead = 4

// Estimator counts tokens using tiktoken, falling back to a chars/4
// heuristic if the encoding cannot be loaded.
type Estimator struct {
	encoding *tiktoken.Tiktoken
	mu       sync.RWMutex
}

var (
	global     *Estimator
	globalOnce sync.Once
)

// Get returns the process-wide estimator.
func Get() *Estimator {
	globalOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(DefaultEncoding)
		if err != nil {
			L_warn("tokens: failed to load encoding, using char fallback", "error", err)
			global = &Estimator{}
			return
		}
		global = &Estimator{encoding: enc}
	})
	return global
}

// Count returns the token count for a string.
func (e *Estimator) Count(text string) int {
	if e == nil || e.encoding == nil {
		return len(text) / 4
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.encoding.Encode(text, nil, nil))
}

// CountMessage returns the token count for message content including
// structural overhead.
func (e *Estimator) CountMessage(content string) int {
	return e.Count(content) + MessageOverhead
}

// Estimate is a convenience function using the global estimator.
func Estimate(text string) int {
	return Get().Count(text)
}
