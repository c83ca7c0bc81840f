package dungeonmaster

import (
	"sync"

	"github.com/dmforge/dmforge/internal/llm"
)

// conversationMemory keeps the last N player/DM exchanges. Older turns fall
// off the window so long sessions don't grow the prompt without bound.
type conversationMemory struct {
	mu       sync.Mutex
	window   int
	messages []llm.Message
}

func newConversationMemory(window int) *conversationMemory {
	return &conversationMemory{window: window}
}

// AddExchange records one player input and the DM's reply
func (m *conversationMemory) AddExchange(playerInput, dmResponse string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages,
		llm.Message{Role: llm.RoleUser, Content: playerInput},
		llm.Message{Role: llm.RoleAssistant, Content: dmResponse},
	)

	if max := m.window * 2; len(m.messages) > max {
		m.messages = m.messages[len(m.messages)-max:]
	}
}

// Messages returns a copy of the retained conversation, oldest first
func (m *conversationMemory) Messages() []llm.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]llm.Message, len(m.messages))
	copy(out, m.messages)
	return out
}
