package app

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The backend may embed a machine-readable payload in the reply text,
// delimited by a fixed tag pair. Whatever else happens, displayed text never
// contains the raw block.
var learnedBlockRe = regexp.MustCompile(`(?s)<learned_json>\s*(.*?)\s*</learned_json>`)

const fallbackHint = "Keep chatting to learn new words"

// Normalized is the total result of the extraction cascade: a usable item,
// the display text with the tagged block stripped, and whether the item is
// the generic fallback (surfaced to the user as a notice, not an error).
type Normalized struct {
	Item     LearningItem
	Display  string
	Fallback bool
}

// StripLearnedBlock removes every tagged block from text.
func StripLearnedBlock(text string) string {
	return strings.TrimSpace(learnedBlockRe.ReplaceAllString(text, ""))
}

type attempt func(resp *ChatResponse, cleaned string) (LearningItem, bool)

// Ordered cascade, first success wins. The final fallback is handled in
// Normalize itself so the function is total.
var cascade = []attempt{
	structuredAttempt,
	taggedBlockAttempt,
	pipeAttempt,
}

// Normalize converts a chat reply into exactly one learning item. It never
// fails: inputs no strategy can parse degrade to a fixed generic item with
// Fallback set.
func Normalize(resp *ChatResponse) Normalized {
	cleaned := StripLearnedBlock(resp.Reply)
	for _, try := range cascade {
		if item, ok := try(resp, cleaned); ok {
			return Normalized{Item: item, Display: cleaned}
		}
	}
	hint := cleaned
	if hint == "" {
		hint = fallbackHint
	}
	return Normalized{
		Item:     LearningItem{Word: "Word", Topic: "General", Level: "All", Hint: hint},
		Display:  cleaned,
		Fallback: true,
	}
}

// structuredAttempt takes the first item of the reply's typed list verbatim.
func structuredAttempt(resp *ChatResponse, _ string) (LearningItem, bool) {
	if len(resp.Learned) > 0 {
		return resp.Learned[0], true
	}
	return LearningItem{}, false
}

// taggedBlockAttempt decodes the tagged block as a strict JSON list.
func taggedBlockAttempt(resp *ChatResponse, _ string) (LearningItem, bool) {
	m := learnedBlockRe.FindStringSubmatch(resp.Reply)
	if m == nil {
		return LearningItem{}, false
	}
	var items []LearningItem
	if err := json.Unmarshal([]byte(m[1]), &items); err != nil || len(items) == 0 {
		return LearningItem{}, false
	}
	return items[0], true
}

// pipeAttempt tokenizes "word | topic | level | hint..." replies. Segments
// past the third are rejoined so pipes inside the hint survive.
func pipeAttempt(_ *ChatResponse, cleaned string) (LearningItem, bool) {
	parts := strings.Split(cleaned, "|")
	if len(parts) < 4 {
		return LearningItem{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return LearningItem{
		Word:  parts[0],
		Topic: parts[1],
		Level: parts[2],
		Hint:  strings.Join(parts[3:], " | "),
	}, true
}
