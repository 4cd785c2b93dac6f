package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// NewGeminiModel creates a Model backed by the Gemini REST API. No SDK is
// used; the REST surface is small and works everywhere.
func NewGeminiModel(modelName, apiKey string) *Model {
	return &Model{
		ModelName: modelName,
		APIKey:    apiKey,
		BaseURL:   geminiBaseURL,
		client: &http.Client{
			// Full-script generations can take minutes.
			Timeout: 5 * time.Minute,
		},
		generateFunc: geminiGenerate,
		streamFunc:   geminiStream,
	}
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func geminiRequestBody(prompt string, jsonMode bool) ([]byte, error) {
	req := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	if jsonMode {
		req.GenerationConfig = &geminiGenerationConfig{ResponseMimeType: "application/json"}
	}
	return json.Marshal(req)
}

func geminiGenerate(ctx context.Context, m *Model, prompt string, jsonMode bool) (string, error) {
	body, err := geminiRequestBody(prompt, jsonMode)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", m.BaseURL, m.ModelName)
	resp, err := geminiPost(ctx, m, url, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", geminiStatusError(resp)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	text := geminiText(parsed)
	if text == "" {
		return "", fmt.Errorf("gemini returned no text candidates")
	}
	return text, nil
}

// geminiStream consumes the server-sent-events form of generateContent and
// forwards each text fragment in arrival order.
func geminiStream(ctx context.Context, m *Model, prompt string, jsonMode bool, onFragment func(string) error) error {
	body, err := geminiRequestBody(prompt, jsonMode)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", m.BaseURL, m.ModelName)
	resp, err := geminiPost(ctx, m, url, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geminiStatusError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}
		var chunk geminiResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return fmt.Errorf("decode stream chunk: %w", err)
		}
		if text := geminiText(chunk); text != "" {
			if err := onFragment(text); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

func geminiPost(ctx context.Context, m *Model, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Header, not query parameter: URLs leak into proxy and server logs.
	req.Header.Set("x-goog-api-key", m.APIKey)

	client := m.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	return resp, nil
}

func geminiStatusError(resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
	return fmt.Errorf("gemini API %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
}

func geminiText(resp geminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}
