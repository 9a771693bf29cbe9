// Package suggest asks OpenAI which budget category fits a payee.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/forPelevin/gomoji"
	"github.com/helpcomp/ynab-tui/ynab"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

var ErrNoMatch = errors.New("no matching category")

type Suggester struct {
	client *openai.Client
	model  string
}

func New(client *openai.Client, model string) *Suggester {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &Suggester{client: client, model: model}
}

type response struct {
	Category string `json:"Category"`
}

// SuggestCategory returns the category from categories that best fits payee.
func (s *Suggester) SuggestCategory(ctx context.Context, payee string, categories []ynab.Category) (ynab.Category, error) {
	if payee == "" {
		return ynab.Category{}, errors.New("payee must be provided")
	}
	if len(categories) == 0 {
		return ynab.Category{}, errors.New("no categories to choose from")
	}

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}

	var prompt strings.Builder
	prompt.WriteString("I want to categorize a transaction in my budget. The payee is: ")
	prompt.WriteString(payee)
	prompt.WriteString("\n\n\"Category\" is the budget category this payment would fall under. Choose exactly one from the following list: ")
	prompt.WriteString(strings.Join(names, ", "))
	prompt.WriteString("\nPlease respond only in JSON, for example {\"Category\": \"Groceries\"}. Do not respond in anything other than JSON.")

	var content string
	if s.model == openai.GPT3Dot5TurboInstruct {
		resp, err := s.client.CreateCompletion(ctx, openai.CompletionRequest{
			Model:     s.model,
			Prompt:    prompt.String(),
			MaxTokens: 64,
		})
		if err != nil {
			return ynab.Category{}, fmt.Errorf("openai completion: %w", err)
		}
		if len(resp.Choices) == 0 {
			return ynab.Category{}, errors.New("openai returned no choices")
		}
		content = resp.Choices[0].Text
	} else {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt.String(),
				},
			},
		})
		if err != nil {
			return ynab.Category{}, fmt.Errorf("openai chat completion: %w", err)
		}
		if len(resp.Choices) != 1 {
			return ynab.Category{}, fmt.Errorf("unexpected number of choices: %d", len(resp.Choices))
		}
		content = resp.Choices[0].Message.Content
	}

	// Some models wrap the JSON in a ```json fence.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var rsp response
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &rsp); err != nil {
		return ynab.Category{}, fmt.Errorf("openai responded with invalid JSON: %w", err)
	}

	c, ok := FindCategory(rsp.Category, categories)
	if !ok {
		return ynab.Category{}, fmt.Errorf("%w: %q", ErrNoMatch, rsp.Category)
	}
	log.Info().Str("payee", payee).Str("category", c.Name).Msg("Suggested category")
	return c, nil
}

// FindCategory matches name against the category names, ignoring emoji and
// leading spaces on both sides.
func FindCategory(name string, categories []ynab.Category) (ynab.Category, bool) {
	want := normalize(name)
	if want == "" {
		return ynab.Category{}, false
	}
	for _, c := range categories {
		if normalize(c.Name) == want {
			return c, true
		}
	}
	return ynab.Category{}, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(gomoji.RemoveEmojis(s)))
}
