package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driving"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question       string `json:"question" jsonschema:"the question to ask the knowledge base"`
	ConversationID string `json:"conversation_id,omitempty" jsonschema:"continue an existing conversation (omit to continue the current thread)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer         string         `json:"answer"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Sources        []SourceOutput `json:"sources,omitempty"`
}

// SourceOutput is a single citation on an answer.
type SourceOutput struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	Limit  int `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 20)"`
	Offset int `json:"offset,omitempty" jsonschema:"number of documents to skip"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Total     int              `json:"total"`
}

// DocumentOutput represents a single listed document.
type DocumentOutput struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category,omitempty"`
	CompanyDoc bool   `json:"company_doc"`
}

// CreateNoteInput is the input schema for the create_note tool.
type CreateNoteInput struct {
	Title      string `json:"title" jsonschema:"the document title"`
	Content    string `json:"content" jsonschema:"the document body"`
	Category   string `json:"category,omitempty" jsonschema:"category label for the document"`
	CompanyDoc bool   `json:"company_doc,omitempty" jsonschema:"share the document with the whole organisation"`
}

// CreateNoteOutput is the output schema for the create_note tool.
type CreateNoteOutput struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
}

// SetScopeInput is the input schema for the set_scope tool.
type SetScopeInput struct {
	Scope string `json:"scope" jsonschema:"the knowledge scope: mine, company, or all"`
}

// SetScopeOutput is the output schema for the set_scope tool.
type SetScopeOutput struct {
	Scope string `json:"scope"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the knowledge base a question and get a cited answer",
	}, s.handleAsk)

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List documents in the active knowledge scope",
		}, s.handleListDocuments)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "create_note",
			Description: "Create a knowledge-base document from inline content",
		}, s.handleCreateNote)
	}

	if s.ports.Settings != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "set_scope",
			Description: "Change the knowledge scope used to answer questions",
		}, s.handleSetScope)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.ConversationID != "" && input.ConversationID != s.ports.Chat.ActiveConversation() {
		if _, err := s.ports.Chat.Open(ctx, input.ConversationID); err != nil {
			return nil, AskOutput{}, fmt.Errorf("opening conversation: %w", err)
		}
	}

	reply, err := s.ports.Chat.Send(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:         reply.Content,
		ConversationID: s.ports.Chat.ActiveConversation(),
		Sources:        make([]SourceOutput, len(reply.Sources)),
	}
	for i, src := range reply.Sources {
		output.Sources[i] = SourceOutput{
			DocumentID: src.DocumentID,
			Title:      src.Title,
			Snippet:    src.Snippet,
		}
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	page, err := s.ports.Document.List(ctx, limit, offset)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(page.Documents)),
		Total:     page.Total,
	}
	for i := range page.Documents {
		output.Documents[i] = DocumentOutput{
			ID:         page.Documents[i].ID,
			Title:      page.Documents[i].Title,
			Category:   page.Documents[i].Category,
			CompanyDoc: page.Documents[i].CompanyDoc,
		}
	}

	return nil, output, nil
}

// handleCreateNote handles the create_note tool invocation.
func (s *Server) handleCreateNote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateNoteInput,
) (*mcp.CallToolResult, CreateNoteOutput, error) {
	doc, err := s.ports.Document.CreateNote(ctx, driving.CreateNoteOptions{
		Title:      input.Title,
		Category:   input.Category,
		Content:    input.Content,
		CompanyDoc: input.CompanyDoc,
	})
	if err != nil {
		return nil, CreateNoteOutput{}, err
	}

	return nil, CreateNoteOutput{DocumentID: doc.ID, Title: doc.Title}, nil
}

// handleSetScope handles the set_scope tool invocation.
func (s *Server) handleSetScope(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SetScopeInput,
) (*mcp.CallToolResult, SetScopeOutput, error) {
	scope, err := domain.ParseScope(input.Scope)
	if err != nil {
		return nil, SetScopeOutput{}, err
	}

	if err := s.ports.Settings.SetScope(scope); err != nil {
		return nil, SetScopeOutput{}, err
	}

	return nil, SetScopeOutput{Scope: string(scope)}, nil
}
