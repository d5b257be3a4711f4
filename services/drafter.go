package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"letterflow_app_go/config"
	"letterflow_app_go/richtext"
)

// Drafter generates letter content from instructions and source material
type Drafter interface {
	DraftLetter(ctx context.Context, req DraftRequest) (*richtext.Doc, error)
}

// DraftRequest carries everything the drafter needs to write a letter
type DraftRequest struct {
	Title        string
	Instructions string
	// SourceTexts holds extracted text from the uploaded source PDFs,
	// one entry per document.
	SourceTexts []string
}

const draftSystemPrompt = `You are a legal correspondence assistant. Draft a formal letter based on the user's instructions and the provided source material. Respond with the letter body only, as simple HTML using exclusively these tags: <p>, <h1>-<h6>, <ul>, <ol>, <li>, <blockquote>, <strong>, <em>, <u>, <a href>. Do not include <html>, <head>, <body>, <div> or inline styles.`

// ChatDrafter implements Drafter against an OpenAI-compatible chat
// completions endpoint.
type ChatDrafter struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewChatDrafter creates a drafter from the application configuration
func NewChatDrafter(cfg *config.Config) *ChatDrafter {
	return &ChatDrafter{
		apiKey:  cfg.AIAPIKey,
		baseURL: strings.TrimSuffix(cfg.AIBaseURL, "/"),
		model:   cfg.AIModel,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// IsConfigured returns true if an API key is available
func (d *ChatDrafter) IsConfigured() bool {
	return d.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// DraftLetter asks the model for a letter draft and parses the response
// into the editor dialect. Markup outside the dialect is sanitized away
// rather than rejected, so a slightly off-script model response still
// yields a usable draft.
func (d *ChatDrafter) DraftLetter(ctx context.Context, req DraftRequest) (*richtext.Doc, error) {
	if !d.IsConfigured() {
		return nil, fmt.Errorf("AI drafting is not configured (AI_API_KEY missing)")
	}
	if strings.TrimSpace(req.Instructions) == "" {
		return nil, fmt.Errorf("drafting instructions are required")
	}

	userPrompt := buildDraftPrompt(req)

	payload := chatCompletionRequest{
		Model: d.model,
		Messages: []chatMessage{
			{Role: "system", Content: draftSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.3,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build draft request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("draft request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read draft response: %w", err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, fmt.Errorf("failed to decode draft response: %w", err)
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("AI provider error: %s", completion.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AI provider returned status %d", resp.StatusCode)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("AI provider returned no choices")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	content = stripCodeFence(content)

	return ParseDraftedContent(content)
}

// ParseDraftedContent converts model output into a document. Unsupported
// markup is sanitized first so the strict parser only sees the dialect.
func ParseDraftedContent(content string) (*richtext.Doc, error) {
	doc, err := richtext.Parse(richtext.Sanitize(content))
	if err != nil {
		return nil, fmt.Errorf("drafted content is not usable: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

func buildDraftPrompt(req DraftRequest) string {
	var b strings.Builder
	if req.Title != "" {
		fmt.Fprintf(&b, "Letter subject: %s\n\n", req.Title)
	}
	fmt.Fprintf(&b, "Instructions:\n%s\n", req.Instructions)
	for i, text := range req.SourceTexts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		fmt.Fprintf(&b, "\nSource document %d:\n%s\n", i+1, text)
	}
	return b.String()
}

// stripCodeFence removes a surrounding markdown code fence if the model
// wrapped its HTML in one.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	// Drop opening fence line (may carry a language tag) and a trailing fence
	lines = lines[1:]
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
