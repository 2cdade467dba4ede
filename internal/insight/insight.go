// Package insight generates a short supportive reflection for an entry
// via an external text-generation call. Failures of any kind degrade
// to a fixed fallback payload; insight generation never blocks or
// fails entry persistence.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/annemirova/innerflow/internal/model"
)

// Generator produces an insight for a full entry. Implementations must
// always return a usable payload.
type Generator interface {
	Generate(ctx context.Context, e model.Entry) model.Insight
}

// Fallback texts returned when generation is unavailable or fails.
const (
	fallbackNoKey = "Writing it down is already the first step. (Set an API key to unlock AI insights.)"
	fallbackError = "Good to see today's record. Keep the streak going."
)

// Client calls the Anthropic Messages API. A zero API key disables the
// call entirely and the no-key fallback is returned.
type Client struct {
	api     anthropic.Client
	model   anthropic.Model
	enabled bool
	log     *zap.Logger
}

// NewClient constructs a Client. Extra request options (base URL,
// custom HTTP client) are mainly for tests.
func NewClient(apiKey, modelName string, log *zap.Logger, opts ...option.RequestOption) *Client {
	c := &Client{
		model:   anthropic.Model(modelName),
		enabled: apiKey != "",
		log:     log,
	}
	if c.enabled {
		c.api = anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	}
	return c
}

// Generate asks the model for a short reflection plus a mood and parses
// the response. Any failure returns the static fallback with a neutral
// mood.
func (c *Client) Generate(ctx context.Context, e model.Entry) model.Insight {
	if !c.enabled {
		return model.Insight{Text: fallbackNoKey, Mood: model.MoodNeutral}
	}

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 300,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(e))),
		},
	})
	if err != nil {
		c.log.Warn("insight generation failed", zap.Error(err))
		return model.Insight{Text: fallbackError, Mood: model.MoodNeutral}
	}

	var text strings.Builder
	for _, block := range msg.Content {
		text.WriteString(block.Text)
	}
	return parseResponse(text.String())
}

func buildPrompt(e model.Entry) string {
	var b strings.Builder
	b.WriteString("You are a warm, empathetic personal growth coach reviewing a journal entry.\n\n")
	fmt.Fprintf(&b, "Today's achievements: %s\n", strings.Join(e.Achievements, ", "))
	fmt.Fprintf(&b, "Today's happy moments: %s\n", strings.Join(e.Happiness, ", "))
	note := e.DrainerNote
	if note == "" {
		note = "no details"
	}
	fmt.Fprintf(&b, "Energy drain: %s (%s)\n", e.DrainerLevel, note)
	fmt.Fprintf(&b, "Most important task: %s\n", e.TodayMITDescription)
	if e.MITCompleted {
		b.WriteString("Completed: yes\n")
	} else {
		fmt.Fprintf(&b, "Completed: no (reason: %s)\n", e.MITReason)
	}
	fmt.Fprintf(&b, "Tomorrow's priority: %s\n\n", e.TomorrowMIT)
	b.WriteString("Write one short encouraging reflection (under 50 words). ")
	b.WriteString("Then judge the entry's overall tone as positive, neutral or needs-care. ")
	b.WriteString(`Reply as JSON with fields "insight" and "mood".`)
	return b.String()
}

var jsonBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// parseResponse extracts the {insight, mood} object, tolerating
// markdown code fences. Unparseable output keeps the raw text with a
// neutral mood.
func parseResponse(raw string) model.Insight {
	body := raw
	if m := jsonBlockRe.FindStringSubmatch(raw); m != nil {
		body = m[1]
	} else if i, j := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); i >= 0 && j > i {
		body = raw[i : j+1]
	}

	var parsed struct {
		Insight string `json:"insight"`
		Mood    string `json:"mood"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil || parsed.Insight == "" {
		return model.Insight{Text: strings.TrimSpace(raw), Mood: model.MoodNeutral}
	}

	mood := model.MoodNeutral
	switch model.Mood(parsed.Mood) {
	case model.MoodPositive, model.MoodNeedsCare:
		mood = model.Mood(parsed.Mood)
	}
	return model.Insight{Text: parsed.Insight, Mood: mood}
}
