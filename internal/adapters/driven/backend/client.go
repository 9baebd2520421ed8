// Package backend provides the HTTP adapter for the knowledge-base
// assistant API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/atlas-kb/atlas-cli/internal/core/domain"
	"github.com/atlas-kb/atlas-cli/internal/core/ports/driven"
	"github.com/atlas-kb/atlas-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Backend = (*Client)(nil)

// Default configuration values.
const (
	// DefaultTimeout bounds every request so the UI never hangs on a dead
	// backend.
	DefaultTimeout = 15 * time.Second

	// defaultStatusRate caps status-poll traffic at 2 queries/s with a
	// small burst, keeping concurrent pollers from hammering the backend.
	defaultStatusRate  = rate.Limit(2)
	defaultStatusBurst = 4
)

// TokenSource supplies the current session credential. An empty string
// means no credential: the request goes out unauthenticated.
type TokenSource func() string

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the API base URL (required).
	BaseURL string

	// Token supplies the bearer credential per request (optional).
	Token TokenSource

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration

	// StatusRate overrides the status-poll rate limit (default: 2/s).
	StatusRate rate.Limit
}

// Client calls the knowledge-base assistant API. It attaches the session
// credential, enforces the request timeout and translates transport
// outcomes into domain errors. It never retries.
type Client struct {
	client  *http.Client
	baseURL string
	token   TokenSource
	limiter *rate.Limiter
}

// NewClient creates a backend API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.StatusRate == 0 {
		cfg.StatusRate = defaultStatusRate
	}
	token := cfg.Token
	if token == nil {
		token = func() string { return "" }
	}

	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		token:   token,
		limiter: rate.NewLimiter(cfg.StatusRate, defaultStatusBurst),
	}, nil
}

// VerifyIdentity exchanges a Google ID token for a session credential.
func (c *Client) VerifyIdentity(ctx context.Context, idToken string) (*driven.VerifyResult, error) {
	var resp verifyResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/verify", verifyRequest{IdentityToken: idToken}, &resp)
	if err != nil {
		return nil, verifyError(err)
	}
	return &driven.VerifyResult{Token: resp.Token, User: resp.User.toDomain()}, nil
}

// VerifyEmail is the fallback exchange: verified email plus provider subject.
func (c *Client) VerifyEmail(ctx context.Context, email, externalUserID string) (*driven.VerifyResult, error) {
	var resp verifyResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/verify-email", verifyEmailRequest{
		Email:  email,
		UserID: externalUserID,
	}, &resp)
	if err != nil {
		return nil, verifyError(err)
	}
	return &driven.VerifyResult{Token: resp.Token, User: resp.User.toDomain()}, nil
}

// ListDocuments returns one page of documents for the scope.
func (c *Client) ListDocuments(ctx context.Context, opts driven.ListOptions) (*domain.DocumentPage, error) {
	query := url.Values{}
	query.Set("scope", opts.Scope.String())
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}

	var resp documentListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/documents?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &domain.DocumentPage{Documents: resp.Documents, Total: resp.Total}, nil
}

// UploadDocument submits a multipart file upload. The multipart writer
// sets its own content type; nothing forces JSON framing onto it.
func (c *Client) UploadDocument(ctx context.Context, req driven.UploadRequest) (*domain.Document, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return nil, fmt.Errorf("copy file content: %w", err)
	}

	fields := map[string]string{
		"is_company_doc": strconv.FormatBool(req.CompanyDoc),
		"category":       req.Category,
	}
	if req.CustomCategory != "" {
		fields["custom_category"] = req.CustomCategory
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(httpReq)

	var doc domain.Document
	if err := c.send(httpReq, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateDocument creates a document from inline content.
func (c *Client) CreateDocument(ctx context.Context, req driven.CreateDocumentRequest) (*domain.Document, error) {
	var doc domain.Document
	err := c.doJSON(ctx, http.MethodPost, "/documents/create", createDocumentRequest{
		Title:          req.Title,
		Category:       req.Category,
		CustomCategory: req.CustomCategory,
		Content:        req.Content,
		CompanyDoc:     req.CompanyDoc,
	}, &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil, nil)
}

// DocumentViewURL returns a short-lived link to the document content.
func (c *Client) DocumentViewURL(ctx context.Context, id string) (*domain.ViewURL, error) {
	var resp domain.ViewURL
	if err := c.doJSON(ctx, http.MethodGet, "/documents/"+url.PathEscape(id)+"/view-url", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DocumentStatus reports the storage/catalog convergence state. Poll
// traffic passes through the rate limiter so concurrent pollers share a
// bounded query budget.
func (c *Client) DocumentStatus(ctx context.Context, id string) (*domain.ConvergenceCheck, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("status rate limit: %w", err)
	}

	var resp statusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/documents/"+url.PathEscape(id)+"/status", nil, &resp); err != nil {
		return nil, err
	}
	return &domain.ConvergenceCheck{
		Available:       resp.Available,
		ExistsInStorage: resp.ExistsInStorage,
		ExistsInDB:      resp.ExistsInDB,
	}, nil
}

// SendChat submits one chat turn and returns the assistant reply.
func (c *Client) SendChat(ctx context.Context, req driven.ChatRequest) (*driven.ChatResponse, error) {
	var resp chatResponse
	err := c.doJSON(ctx, http.MethodPost, "/chat", chatRequest{
		Message:        req.Message,
		ConversationID: req.ConversationID,
		Scope:          req.Scope.String(),
	}, &resp)
	if err != nil {
		return nil, err
	}

	out := &driven.ChatResponse{
		ConversationID: resp.ConversationID,
		MessageID:      resp.MessageID,
		Response:       resp.Response,
	}
	for _, s := range resp.Sources {
		out.Sources = append(out.Sources, domain.Source{
			DocumentID: s.DocumentID,
			Title:      s.Title,
			Snippet:    s.Snippet,
		})
	}
	return out, nil
}

// ListConversations returns the user's chat threads.
func (c *Client) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	var resp conversationListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/chat/sessions", nil, &resp); err != nil {
		return nil, err
	}

	conversations := make([]domain.Conversation, len(resp.Conversations))
	for i, wc := range resp.Conversations {
		conversations[i] = wc.toDomain()
	}
	return conversations, nil
}

// ListMessages returns the ordered transcript of a conversation.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	var wire []wireMessage
	path := "/chat/sessions/" + url.PathEscape(conversationID) + "/messages"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	messages := make([]domain.Message, len(wire))
	for i, wm := range wire {
		messages[i] = wm.toDomain()
	}
	return messages, nil
}

// UpdateConversation renames or pins a conversation.
func (c *Client) UpdateConversation(ctx context.Context, id string, update driven.ConversationUpdate) (*domain.Conversation, error) {
	var resp wireConversation
	path := "/chat/sessions/" + url.PathEscape(id)
	err := c.doJSON(ctx, http.MethodPatch, path, updateConversationRequest{
		Title:  update.Title,
		Pinned: update.Pinned,
	}, &resp)
	if err != nil {
		return nil, err
	}
	conversation := resp.toDomain()
	return &conversation, nil
}

// DeleteConversation removes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/chat/sessions/"+url.PathEscape(id), nil, nil)
}

// doJSON performs a JSON request/response round trip. GET and HEAD never
// carry a body, whatever the caller supplied. out may be nil for bodyless
// responses.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	hasBody := body != nil && method != http.MethodGet && method != http.MethodHead
	if hasBody {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	return c.send(req, out)
}

// send executes the request, classifies failures and decodes the response.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Debug("%s %s: %v", req.Method, req.URL.Path, err)
		return fmt.Errorf("%w: %v", domain.ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classify(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// authorize attaches the bearer credential when one is present.
func (c *Client) authorize(req *http.Request) {
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
