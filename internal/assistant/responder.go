package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Responder turns a free-text patient message into a structured Result.
type Responder interface {
	Respond(ctx context.Context, text string) (Result, error)
}

const systemPromptTemplate = `You are a friendly medical clinic appointment assistant.

IMPORTANT: You MUST format your responses exactly as instructed below.

Format ALL your responses using one of these exact formats:
1. DATETIME: YYYY-MM-DD HH:MM | Your message
2. DATE_ONLY: YYYY-MM-DD | Your message
3. TIME_ONLY: HH:MM | Your message
4. GREETING | Your message

Examples of correct formatting:
DATETIME: 2025-05-16 09:30 | Your appointment is scheduled for Friday at 9:30 AM.
DATE_ONLY: 2025-05-16 | What time would you like to schedule on Friday?
TIME_ONLY: 09:30 | What date would you like to schedule at 9:30 AM?
GREETING | Hello! How can I help you schedule an appointment today?

Operating hours:
Sunday to Thursday: 8:00 AM - 7:00 PM
Friday: 8:00 AM - 12:00 PM
Saturday: Closed

Today's date is: %s`

// OpenAIResponder asks an OpenAI chat model to interpret the patient's
// message using the structured reply contract.
type OpenAIResponder struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func NewOpenAIResponder(apiKey, model string) *OpenAIResponder {
	return &OpenAIResponder{
		client: openai.NewClient(apiKey),
		model:  model,
		now:    time.Now,
	}
}

func (r *OpenAIResponder) Respond(ctx context.Context, text string) (Result, error) {
	if r.client == nil {
		return Result{}, errors.New("openai client not initialized")
	}

	now := r.now()
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(systemPromptTemplate, now.Format("2006-01-02")),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.5,
		MaxTokens:   300,
	})
	if err != nil {
		return Result{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, errors.New("empty completion response")
	}

	return ParseStructuredReply(resp.Choices[0].Message.Content, now.Location()), nil
}
