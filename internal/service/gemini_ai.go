package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"ieltsprep/internal/config"
	"ieltsprep/internal/model"
	"io"
	"net/http"
	"strings"
	"time"
)

// GeminiAI calls the Gemini generateContent REST endpoint
type GeminiAI struct {
	config config.AIConfig
	client *http.Client
}

// NewGeminiAI creates a Gemini provider
func NewGeminiAI(cfg config.AIConfig) *GeminiAI {
	return &GeminiAI{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

type geminiPart map[string]interface{}

func textPart(text string) geminiPart {
	return geminiPart{"text": text}
}

func inlinePart(mimeType, data string) geminiPart {
	return geminiPart{"inline_data": map[string]string{
		"mime_type": mimeType,
		"data":      data,
	}}
}

func (g *GeminiAI) TranscribeAudio(ctx context.Context, audioBase64, mimeType string) (string, error) {
	text, err := g.callGemini(ctx, g.config.Models.Transcribe, false,
		textPart(transcribePrompt), inlinePart(mimeType, audioBase64))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (g *GeminiAI) GradeWritingTask(ctx context.Context, req WritingGradeRequest) (*model.WritingFeedback, error) {
	parts := []geminiPart{textPart(buildWritingPrompt(req))}
	if req.ChartImage != "" {
		parts = append(parts, inlinePart(req.ChartImageMime, req.ChartImage))
	}
	response, err := g.callGemini(ctx, g.config.Models.Writing, true, parts...)
	if err != nil {
		return nil, err
	}

	var feedback model.WritingFeedback
	if err := json.Unmarshal([]byte(response), &feedback); err != nil {
		return nil, fmt.Errorf("decode writing feedback: %w", err)
	}
	return &feedback, nil
}

func (g *GeminiAI) ExtractQuiz(ctx context.Context, fileBase64, mimeType string) (*model.QuizExtraction, error) {
	response, err := g.callGemini(ctx, g.config.Models.Extract, true,
		textPart(buildExtractionPrompt()), inlinePart(mimeType, fileBase64))
	if err != nil {
		return nil, err
	}

	var raw rawExtraction
	if err := json.Unmarshal([]byte(response), &raw); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	return raw.extraction(), nil
}

// callGemini makes a request to the Gemini API
func (g *GeminiAI) callGemini(ctx context.Context, modelName string, jsonOut bool, parts ...geminiPart) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
	}
	if jsonOut {
		reqBody["generationConfig"] = map[string]interface{}{
			"responseMimeType": "application/json",
		}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", g.config.ModelEndpoint(modelName), g.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
