package emotion

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/gollem"

	"github.com/empathia-lab/therabot/pkg/domain/types"
	"github.com/empathia-lab/therabot/pkg/utils/logging"
)

// labelTable maps the classifier's label index to a tone. The index order is
// fixed by the sentiment model's label set and must not be reordered.
var labelTable = map[int64]types.Tone{
	0: types.ToneSad,
	1: types.ToneNeutral,
	2: types.ToneHappy,
	3: types.ToneAngry,
	4: types.ToneWorried,
}

const classifierSystemPrompt = `You are a sentiment classifier for a mental health chat assistant.
Classify the emotional tone of the user's message into exactly one label:
0 = sad, 1 = neutral, 2 = happy, 3 = angry, 4 = worried.
Judge the dominant emotion of the whole message. Respond with JSON only.`

// Classifier maps an utterance to one tone from the classification set. The
// primary path is the statistical model behind the LLM collaborator; a fixed
// keyword table takes over whenever the primary path is unavailable or fails.
// Classify never returns an error and never yields the escalation marker.
type Classifier struct {
	llmClient gollem.LLMClient
}

// New creates a new classifier. A nil client is allowed and puts the
// classifier into keyword-fallback mode permanently.
func New(llmClient gollem.LLMClient) *Classifier {
	return &Classifier{llmClient: llmClient}
}

type labelResponse struct {
	Label int64 `json:"label"`
}

// Classify returns exactly one tone from the classification set
func (c *Classifier) Classify(ctx context.Context, text string) types.Tone {
	if c.llmClient == nil {
		return classifyByKeywords(text)
	}

	tone, err := c.classifyPrimary(ctx, text)
	if err != nil {
		logging.From(ctx).Warn("primary emotion classifier failed, using keyword fallback",
			"error", err.Error(),
		)
		return classifyByKeywords(text)
	}

	logging.From(ctx).Debug("detected emotion", "tone", tone)
	return tone
}

func (c *Classifier) classifyPrimary(ctx context.Context, text string) (types.Tone, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(labelSchema()),
		gollem.WithSessionSystemPrompt(classifierSystemPrompt),
	)
	if err != nil {
		return "", err
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(text))
	if err != nil {
		return "", err
	}
	if len(resp.Texts) == 0 {
		return classifyByKeywords(text), nil
	}

	var label labelResponse
	if err := json.Unmarshal([]byte(resp.Texts[0]), &label); err != nil {
		return "", err
	}

	tone, ok := labelTable[label.Label]
	if !ok {
		// Out-of-range index from the model; treat as neutral like an
		// unknown prediction rather than failing over to keywords.
		return types.ToneNeutral, nil
	}
	return tone, nil
}

func labelSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "EmotionLabel",
		Description: "Sentiment label index for the user's message",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"label": {
				Type:        gollem.TypeInteger,
				Description: "0=sad, 1=neutral, 2=happy, 3=angry, 4=worried",
				Required:    true,
			},
		},
	}
}

// classifyByKeywords checks the ordered keyword rules; the first rule with a
// matching keyword wins, and no match at all yields neutral.
func classifyByKeywords(text string) types.Tone {
	lower := strings.ToLower(text)
	for _, rule := range fallbackRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Tone
			}
		}
	}
	return types.ToneNeutral
}
