package services

import (
	"sync"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
)

// State is the shared view state: the active scope, the active conversation
// and its transcript, the sidebar list and per-document tracking statuses.
// It mirrors the backend and is rebuilt from fresh fetches after mutating
// actions; it is passed explicitly to views, never held as a global.
//
// A mutex guards all fields because poller goroutines and CLI callers write
// concurrently with TUI reads.
type State struct {
	mu sync.RWMutex

	scope                domain.Scope
	activeConversationID string
	messages             []domain.Message
	conversations        []domain.Conversation
	statuses             map[string]statusEntry
}

// statusEntry is one tracked document status. The generation counts
// lifecycles for the id: a fresh upload or delete bumps it, so writes and
// drop timers left over from an earlier lifecycle can be told apart from
// the current one.
type statusEntry struct {
	status     domain.ResourceStatus
	generation uint64
}

// NewState creates an empty state store with the given initial scope.
func NewState(scope domain.Scope) *State {
	if !scope.Valid() {
		scope = domain.DefaultScope
	}
	return &State{
		scope:    scope,
		statuses: make(map[string]statusEntry),
	}
}

// Scope returns the active knowledge scope.
func (s *State) Scope() domain.Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope
}

// SetScope updates the active knowledge scope.
func (s *State) SetScope(scope domain.Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope = scope
}

// ActiveConversation returns the active conversation id, empty for a new chat.
func (s *State) ActiveConversation() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeConversationID
}

// SetActiveConversation changes the active conversation id.
func (s *State) SetActiveConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeConversationID = id
}

// AppendMessage adds a message to the end of the transcript.
// Appends preserve arrival order; nothing ever reorders the sequence.
func (s *State) AppendMessage(msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// ResolveMessage finalises an optimistic entry once the server responds:
// the client id is replaced when the server assigned one, the conversation
// id is filled in, and the pending flag clears. Position in the sequence is
// unchanged.
func (s *State) ResolveMessage(clientID, serverID, conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == clientID {
			if serverID != "" {
				s.messages[i].ID = serverID
			}
			s.messages[i].ConversationID = conversationID
			s.messages[i].Pending = false
			return
		}
	}
}

// Messages returns a copy of the transcript in arrival order.
func (s *State) Messages() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// SetMessages replaces the transcript, e.g. when opening a conversation.
func (s *State) SetMessages(messages []domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append([]domain.Message(nil), messages...)
}

// ClearMessages empties the transcript. This is the only truncation path.
func (s *State) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Conversations returns a copy of the sidebar list.
func (s *State) Conversations() []domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// SetConversations replaces the sidebar list after a fetch.
func (s *State) SetConversations(conversations []domain.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = append([]domain.Conversation(nil), conversations...)
}

// Status returns the tracked status for a document id.
// Ids never submitted to the poller report StatusUntracked.
func (s *State) Status(id string) domain.ResourceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statuses[id].status
}

// SetStatus records a tracking status for a document id and returns the
// lifecycle generation the write belongs to. A pending status over an
// untracked or different status starts a new lifecycle, so a delete
// initiated while "uploaded" is still showing takes over the entry.
// Terminal states are otherwise sticky: a non-pending write never
// regresses an outcome.
func (s *State) SetStatus(id string, status domain.ResourceStatus) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.statuses[id]
	if entry.status.Terminal() && !status.Pending() {
		return entry.generation
	}
	if status.Pending() && entry.status != status {
		entry.generation++
	}
	entry.status = status
	s.statuses[id] = entry
	return entry.generation
}

// CompleteStatus records the terminal outcome of a convergence run, but
// only while the entry still shows the pending status that run set. A
// newer lifecycle for the same id supersedes the write. Returns the
// generation the drop timer must present to remove the entry.
func (s *State) CompleteStatus(id string, from, to domain.ResourceStatus) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.statuses[id]
	if !ok || entry.status != from {
		return 0, false
	}
	entry.status = to
	s.statuses[id] = entry
	return entry.generation, true
}

// DropStatus removes a tracking entry once its grace period has passed.
// The generation guards against a stale timer from an earlier lifecycle
// removing a freshly re-tracked entry.
func (s *State) DropStatus(id string, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.statuses[id]; ok && entry.generation == generation {
		delete(s.statuses, id)
	}
}
