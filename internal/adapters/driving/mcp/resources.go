package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Atlas resources.
	uriScheme = "atlas://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing conversations.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "conversations",
		Name:        "conversations",
		Description: "List of the signed-in user's conversations",
		MIMEType:    "application/json",
	}, s.handleConversationsResource)

	// Template for conversation transcripts.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "conversations/{conversationId}",
		Name:        "conversation-transcript",
		Description: "Full transcript of a specific conversation",
		MIMEType:    "application/json",
	}, s.handleTranscriptResource)

	// Template for short-lived document links.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/link",
		Name:        "document-link",
		Description: "Short-lived viewing link for a specific document",
		MIMEType:    "application/json",
	}, s.handleDocumentLinkResource)
}

// handleConversationsResource returns the user's conversation list.
func (s *Server) handleConversationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	conversations, err := s.ports.Chat.Conversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	// Build simplified conversation list.
	type conversationInfo struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Pinned bool   `json:"pinned"`
	}

	infos := make([]conversationInfo, len(conversations))
	for i, conv := range conversations {
		infos[i] = conversationInfo{
			ID:     conv.ID,
			Title:  conv.Title,
			Pinned: conv.Pinned,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling conversations: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleTranscriptResource returns the transcript of a specific conversation.
func (s *Server) handleTranscriptResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract conversationId from URI: atlas://conversations/{conversationId}
	convID := extractConversationID(req.Params.URI)
	if convID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	messages, err := s.ports.Chat.Open(ctx, convID)
	if err != nil {
		return nil, fmt.Errorf("opening conversation: %w", err)
	}

	// Build simplified transcript.
	type messageInfo struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	infos := make([]messageInfo, len(messages))
	for i := range messages {
		infos[i] = messageInfo{
			Role:    string(messages[i].Role),
			Content: messages[i].Content,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling transcript: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentLinkResource returns a short-lived link for a document.
func (s *Server) handleDocumentLinkResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: atlas://documents/{documentId}/link
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	link, err := s.ports.Document.ViewURL(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document link: %w", err)
	}

	data, err := json.Marshal(link)
	if err != nil {
		return nil, fmt.Errorf("marshalling link: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractConversationID extracts the conversation ID from a URI like
// atlas://conversations/{conversationId}.
func extractConversationID(uri string) string {
	const prefix = uriScheme + "conversations/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

// extractDocumentID extracts the document ID from a URI like
// atlas://documents/{documentId}/link.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"
	const suffix = "/link"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
