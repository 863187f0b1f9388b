package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGenerationModelName = "gemini-1.5-pro-latest"

// LLMService is the gateway to the external generative model. It is the only
// component that talks to the model service: one outbound call per
// invocation, no retry, no caching.
type LLMService struct {
	client *genai.Client
}

func NewLLMService(apiKey string) (*LLMService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{
		client: client,
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

// Generate sends one chat-style request with the given system instruction and
// user content. JSON output is requested via the response MIME type, but that
// is a hint to the model, not a guarantee; callers must validate the returned
// text before treating it as structured data. An empty model response comes
// back as an empty string with a nil error so the validator can reject it as
// a missing-fields contract violation.
func (s *LLMService) Generate(ctx context.Context, systemInstruction, userContent string) (string, error) {
	model := s.client.GenerativeModel(defaultGenerationModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userContent))
	if err != nil {
		return "", fmt.Errorf("gemini generation request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return "", nil
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	return responseText.String(), nil
}
