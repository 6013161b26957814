package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const assistantPrompt = `You are a poultry health assistant for smallholder farmers.
Answer questions about poultry diseases, biosecurity, feeding and flock management.
Keep answers short, practical and safe. If a bird looks seriously ill, advise
contacting a veterinary officer.`

type GeminiClient struct {
	Client     *genai.Client
	FlashModel *genai.GenerativeModel
}

func NewGenAIClient(apiKey, flashModelName string) (*GeminiClient, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai client init failed: %w", err)
	}

	model := client.GenerativeModel(flashModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(assistantPrompt)},
	}

	return &GeminiClient{
		Client:     client,
		FlashModel: model,
	}, nil
}

// SendMessage sends one user message and returns the assistant reply text.
func (g *GeminiClient) SendMessage(ctx context.Context, message string) (string, error) {
	resp, err := g.FlashModel.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from AI")
	}
	textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("response part is not text, received %T", resp.Candidates[0].Content.Parts[0])
	}
	return strings.TrimSpace(string(textPart)), nil
}

// ChatGateway produces assistant replies with automatic failover across the
// configured API keys.
type ChatGateway struct {
	pool *clientPool
}

func NewChatGateway(apiKeys []string, flashModelName string) (*ChatGateway, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("no Gemini API keys configured")
	}

	clients := make([]GeminiClient, 0, len(apiKeys))
	for _, key := range apiKeys {
		client, err := NewGenAIClient(key, flashModelName)
		if err != nil {
			return nil, err
		}
		clients = append(clients, *client)
	}

	return &ChatGateway{pool: newClientPool(clients)}, nil
}

// Reply attempts the message with all clients until one succeeds.
func (g *ChatGateway) Reply(ctx context.Context, message string) (string, error) {
	var reply string

	err := g.pool.tryAll(func(client *GeminiClient, clientIdx int) error {
		resp, err := client.SendMessage(ctx, message)
		if err != nil {
			return err
		}
		reply = resp
		return nil
	})
	if err != nil {
		return "", err
	}

	return reply, nil
}
