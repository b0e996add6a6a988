package usecase

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/empathia-lab/therabot/pkg/domain/types"
)

//go:embed prompt/system.md
var systemPromptTmpl string

var systemPrompt = template.Must(template.New("system").Parse(systemPromptTmpl))

// responseMarker is the template tail the model sometimes echoes back; the
// generator strips it from the output.
const responseMarker = "Assistant Response:"

// noContextPlaceholder is rendered when no snippets were retrieved at all
const noContextPlaceholder = "No specific context retrieved."

// renderSystemPrompt fills the persona preamble with the end user's display
// name. The preamble is the only personalized part of the prompt.
func renderSystemPrompt(displayName string) string {
	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, map[string]string{"Username": displayName}); err != nil {
		// The template is embedded and the data is a plain string; execution
		// cannot fail at runtime. Fall back to the raw template regardless.
		return systemPromptTmpl
	}
	return strings.TrimSpace(buf.String())
}

// buildUserPrompt deterministically composes the user part of the prompt from
// the utterance, the detected tone, and the retrieved snippets. Snippet
// content is rendered as inert bullet list items, never as instructions.
func buildUserPrompt(utterance string, tone types.Tone, snippets []string) string {
	contextStr := noContextPlaceholder
	if len(snippets) > 0 {
		bullets := make([]string, len(snippets))
		for i, s := range snippets {
			bullets[i] = "- " + s
		}
		contextStr = strings.Join(bullets, "\n")
	}

	return fmt.Sprintf(
		"User Input: %s\nDetected Emotion: %s\nPotentially Relevant Info:\n%s\n%s",
		utterance, tone, contextStr, responseMarker,
	)
}
