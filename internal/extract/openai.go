package extract

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Системный промпт извлечения (v2): упрощенный формат и явные правила
// маппинга статусных фраз
const systemPrompt = `You are a professional attendance data extractor. Analyze the user's message and output JSON.
Format: { "is_attendance": bool, "attendances": [{ "date": "YYYY-MM-DD", "status": "string", "note": "string", "action": "save" | "delete" }] }

Rules:
1. Status: '年休','休暇'->'vacation', '午前休'->'vacation_am', '午後休'->'vacation_pm', '時間休'->'vacation_hourly', '電車遅延'->'late_delay', '遅刻'->'late', '在宅'->'remote', '外出'->'out', 'シフト'->'shift', '早退'->'early_leave'.
2. Note: Use this for specific locations, reasons, or specific times mentioned (e.g., '8:00出勤', '終日外出').
   - If no specific info is provided beyond the status, leave 'note' empty ("").
   - For changes like '~A~ -> B', set note to '(予定変更) B'.
3. Code Blocks: Extract text inside ` + "```" + ` as official data.
4. Today: Use the provided date to infer the year.`

const defaultOracleTimeout = 30 * time.Second

// OpenAIOracle - реализация Oracle поверх OpenAI Chat Completions
type OpenAIOracle struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIOracle(apiKey, model string) *OpenAIOracle {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIOracle{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: defaultOracleTimeout,
	}
}

func (o *OpenAIOracle) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf("Today: %s (%s)\nText: %s",
		req.ReferenceDate.Format("2006-01-02"),
		req.ReferenceDate.Weekday(),
		req.Text,
	)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		// сбой транспорта всегда транзиентный для вызывающего
		return nil, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrOracleUnavailable)
	}

	return &Response{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}
