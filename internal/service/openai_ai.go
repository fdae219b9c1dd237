package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"ieltsprep/internal/config"
	"ieltsprep/internal/model"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIAI serves the generative operations through the OpenAI API
type OpenAIAI struct {
	client *openai.Client
	models config.AIModels
}

// NewOpenAIAI creates an OpenAI provider
func NewOpenAIAI(cfg config.AIConfig) *OpenAIAI {
	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIAI{
		client: openai.NewClientWithConfig(clientCfg),
		models: cfg.Models,
	}
}

var audioExtensions = map[string]string{
	"audio/webm":  "webm",
	"audio/ogg":   "ogg",
	"audio/mpeg":  "mp3",
	"audio/mp4":   "m4a",
	"audio/wav":   "wav",
	"audio/x-wav": "wav",
}

func (o *OpenAIAI) TranscribeAudio(ctx context.Context, audioBase64, mimeType string) (string, error) {
	audio, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return "", fmt.Errorf("decode audio: %w", err)
	}
	ext, ok := audioExtensions[strings.ToLower(mimeType)]
	if !ok {
		ext = "webm"
	}

	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.models.Transcribe,
		FilePath: "answer." + ext,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (o *OpenAIAI) GradeWritingTask(ctx context.Context, req WritingGradeRequest) (*model.WritingFeedback, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: buildWritingPrompt(req)},
	}
	if req.ChartImage != "" {
		parts = append(parts, imagePart(req.ChartImageMime, req.ChartImage))
	}

	content, err := o.complete(ctx, o.models.Writing, parts)
	if err != nil {
		return nil, err
	}
	var feedback model.WritingFeedback
	if err := json.Unmarshal([]byte(content), &feedback); err != nil {
		return nil, fmt.Errorf("decode writing feedback: %w", err)
	}
	return &feedback, nil
}

func (o *OpenAIAI) ExtractQuiz(ctx context.Context, fileBase64, mimeType string) (*model.QuizExtraction, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("openai provider cannot read %s files, upload an image", mimeType)
	}
	content, err := o.complete(ctx, o.models.Extract, []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: buildExtractionPrompt()},
		imagePart(mimeType, fileBase64),
	})
	if err != nil {
		return nil, err
	}
	var raw rawExtraction
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	return raw.extraction(), nil
}

func (o *OpenAIAI) complete(ctx context.Context, modelName string, parts []openai.ChatMessagePart) (string, error) {
	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: modelName,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an IELTS assistant. Always answer with a single JSON object.",
				},
				{
					Role:         openai.ChatMessageRoleUser,
					MultiContent: parts,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", modelName)
	}
	return resp.Choices[0].Message.Content, nil
}

func imagePart(mimeType, data string) openai.ChatMessagePart {
	return openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeImageURL,
		ImageURL: &openai.ChatMessageImageURL{
			URL:    "data:" + mimeType + ";base64," + data,
			Detail: openai.ImageURLDetailHigh,
		},
	}
}
