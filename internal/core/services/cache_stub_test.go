package services

import (
	"context"
	"sort"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
)

// fakeCache is an in-memory driven.ConversationCache for service tests.
type fakeCache struct {
	conversations map[string]domain.Conversation
}

var _ driven.ConversationCache = (*fakeCache)(nil)

func newFakeCache() *fakeCache {
	return &fakeCache{conversations: make(map[string]domain.Conversation)}
}

func (f *fakeCache) Replace(_ context.Context, conversations []domain.Conversation) error {
	f.conversations = make(map[string]domain.Conversation, len(conversations))
	for _, c := range conversations {
		f.conversations[c.ID] = c
	}
	return nil
}

func (f *fakeCache) Put(_ context.Context, conversation domain.Conversation) error {
	f.conversations[conversation.ID] = conversation
	return nil
}

func (f *fakeCache) List(_ context.Context) ([]domain.Conversation, error) {
	out := make([]domain.Conversation, 0, len(f.conversations))
	for _, c := range f.conversations {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (f *fakeCache) Delete(_ context.Context, id string) error {
	delete(f.conversations, id)
	return nil
}

func (f *fakeCache) Close() error { return nil }
