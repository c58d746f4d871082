/*
 * Copyright 2026 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package ingest

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash-lite"

const geminiPrompt = `Transcribe all text in this laboratory report image.
Keep one table row per line, with the test name, its value and its unit in
reading order. Do not summarise, interpret or add anything. Return only the
transcribed text.`

// Gemini transcribes images with a Gemini model.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini API client.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errGeminiAPIKey
	}

	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string {
	return "gemini"
}

// Recognize sends the image inline with a transcription prompt.
func (g *Gemini) Recognize(ctx context.Context, png []byte) (string, error) {
	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: geminiPrompt},
				{InlineData: &genai.Blob{Data: png, MIMEType: "image/png"}},
			},
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", errGeminiEmpty
	}

	return text, nil
}
