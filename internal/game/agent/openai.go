package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/diplomacy.space/internal/game/event"
	"github.com/louisbranch/diplomacy.space/internal/game/loop"
	"github.com/louisbranch/diplomacy.space/internal/game/prompt"
)

const defaultResponsesURL = "https://api.openai.com/v1/responses"

// OpenAIConfig configures the OpenAI responses endpoint and HTTP behavior.
type OpenAIConfig struct {
	APIKey       string
	Model        string
	ResponsesURL string
	HTTPClient   *http.Client
}

// OpenAI is an LLM-backed decider. Each phase it generates one public press
// message, then asks the model for orders against the legal menu. Model
// output that is not a legal order is dropped rather than submitted, so a
// misbehaving model degrades to holding instead of stalling the match.
type OpenAI struct {
	cfg   OpenAIConfig
	phase phaseTracker
}

// NewOpenAI creates an OpenAI-backed decider.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.ResponsesURL == "" {
		cfg.ResponsesURL = defaultResponsesURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &OpenAI{cfg: cfg}, nil
}

func (o *OpenAI) Decide(ctx context.Context, history []loop.Entry, view loop.View) error {
	board := view.BoardSnapshot()
	if !o.phase.changed(board.Phase) {
		return nil
	}

	legal, err := view.LegalActions()
	if err != nil {
		return err
	}
	in := prompt.Input{
		Power:        view.Power(),
		Board:        board,
		Legal:        legal,
		PressHistory: pressEntries(history),
	}

	// Press failures never block order submission.
	if message, err := o.invoke(ctx, prompt.Press(in)); err != nil {
		log.Printf("%s press generation: %v", view.Power(), err)
	} else if message = strings.TrimSpace(message); message != "" {
		if err := view.SendMessage(ctx, event.RecipientAll, message); err != nil {
			log.Printf("%s press send: %v", view.Power(), err)
		}
	}

	output, err := o.invoke(ctx, prompt.Orders(in))
	if err != nil {
		log.Printf("%s orders generation: %v, holding", view.Power(), err)
		return view.SubmitAction(ctx, nil)
	}

	set := make(map[string]bool)
	for _, opts := range legal {
		for _, order := range opts {
			set[order] = true
		}
	}
	var orders []string
	for _, order := range parseOrders(output) {
		if set[order] {
			orders = append(orders, order)
			continue
		}
		log.Printf("%s dropped illegal model order %q", view.Power(), order)
	}
	return view.SubmitAction(ctx, orders)
}

// invoke posts prompt to the responses endpoint and returns the output text.
func (o *OpenAI) invoke(ctx context.Context, input string) (string, error) {
	requestBody, err := json.Marshal(map[string]any{
		"model": o.cfg.Model,
		"input": input,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.ResponsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material is sent only as an Authorization header and is
	// never echoed in errors.
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	res, err := o.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("read error body: %w", err)
		}
		return "", fmt.Errorf("request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	outputText := strings.TrimSpace(payload.OutputText)
	if outputText == "" {
		for _, item := range payload.Output {
			for _, content := range item.Content {
				if strings.TrimSpace(content.Text) != "" {
					outputText = strings.TrimSpace(content.Text)
					break
				}
			}
			if outputText != "" {
				break
			}
		}
	}
	if outputText == "" {
		return "", fmt.Errorf("response missing output text")
	}
	return outputText, nil
}

// parseOrders extracts a JSON string array from model output, tolerating
// surrounding prose and code fences.
func parseOrders(output string) []string {
	start := strings.Index(output, "[")
	end := strings.LastIndex(output, "]")
	if start == -1 || end <= start {
		return nil
	}
	var orders []string
	if err := json.Unmarshal([]byte(output[start:end+1]), &orders); err != nil {
		return nil
	}
	return orders
}
