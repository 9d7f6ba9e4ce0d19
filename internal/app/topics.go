package app

import "strings"

// Canonical topic tokens understood by the backend recommender.
var CanonicalTopics = []string{
	"daily", "sport", "school", "travel", "technology", "art",
	"business", "food", "general", "health", "nature", "people", "science",
}

var topicAliases = map[string]string{
	"sports":     "sport",
	"tech":       "technology",
	"it":         "technology",
	"medical":    "health",
	"medicine":   "health",
	"healthcare": "health",
	"doctor":     "health",
}

// NormalizeTopic maps free-form user input to a canonical topic token,
// mirroring the server's aliasing so the recommend command can validate
// before going to the network. Unknown input is returned lowercased; the
// server makes the final call.
func NormalizeTopic(topic string) string {
	t := strings.ToLower(strings.TrimSpace(topic))
	if t == "" {
		return ""
	}
	if canon, ok := topicAliases[t]; ok {
		return canon
	}
	for _, c := range CanonicalTopics {
		if t == c {
			return t
		}
	}
	// Singularize a trailing "s" and retry the canonical set.
	if trimmed := strings.TrimSuffix(t, "s"); trimmed != t {
		for _, c := range CanonicalTopics {
			if trimmed == c {
				return trimmed
			}
		}
	}
	return t
}
