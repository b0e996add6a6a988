package guard

import (
	"strings"

	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/domain/types"
)

// distressKeywords are the crisis phrases that trigger the safety overlay.
// Matching is a plain case-insensitive substring test so the scan works with
// no model dependency at all.
var distressKeywords = []string{
	"kill myself",
	"suicide",
	"end my life",
	"want to die",
	"hopeless",
	"can't go on",
	"no reason to live",
	"overwhelmed",
	"hurting myself",
	"self-harm",
}

// CrisisNotice is the fixed crisis-resource message appended to the response
// when distress is detected.
const CrisisNotice = "I understand you're going through immense pain right now. Please know that you're not alone and help is available.\n\n" +
	"US/Canada: Call or text 988 (National Suicide Prevention Lifeline)\n" +
	"UK: Call 111 or 116 123 (Samaritans)\n" +
	"India: Emergency: 112\n" +
	"      Suicide Hotline: 8888817666\n" +
	"      Prana Lifeline: 1800 121 203040 (Call), +91-8489512307 (Chat)\n" +
	"      Vandrevala Foundation: 9999-666-555 (Call), +1256662142 (Chat)\n" +
	"\nThese services provide 24/7 free and confidential support for depression, anxiety, suicidal thoughts and other crises. " +
	"Please reach out for help - you matter and people care about you."

// Scan reports whether the text contains a crisis phrase. It is pure and runs
// before every model-dependent stage, so distress detection is never skipped
// because of a model outage.
func Scan(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range distressKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Overlay applies the safety overlay to a finished reply: the crisis notice
// is appended and the tone is overridden to the escalation marker, regardless
// of what the classifier produced.
func Overlay(reply *model.Reply) {
	reply.Text = reply.Text + "\n\n" + CrisisNotice
	reply.Tone = types.ToneConcerned
	reply.Distress = true
}
