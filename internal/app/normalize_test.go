package app

import (
	"strings"
	"testing"
)

func TestNormalizeTaggedBlock(t *testing.T) {
	resp := &ChatResponse{
		Reply: `Hello <learned_json>[{"word":"cat","topic":"animals","level":"Beginner","hint":"a pet"}]</learned_json>`,
	}
	got := Normalize(resp)
	if got.Fallback {
		t.Fatalf("expected tagged block to parse, got fallback")
	}
	want := LearningItem{Word: "cat", Topic: "animals", Level: "Beginner", Hint: "a pet"}
	if got.Item != want {
		t.Fatalf("item = %+v, want %+v", got.Item, want)
	}
	if got.Display != "Hello" {
		t.Fatalf("display = %q, want %q", got.Display, "Hello")
	}
}

func TestNormalizeStructuredListWinsOverText(t *testing.T) {
	resp := &ChatResponse{
		Reply:   "dog | animals | Beginner | a loyal pet",
		Learned: []LearningItem{{Word: "cat", Topic: "animals", Level: "Advanced", Hint: "from list"}},
	}
	got := Normalize(resp)
	if got.Item.Word != "cat" || got.Item.Hint != "from list" {
		t.Fatalf("expected first structured item verbatim, got %+v", got.Item)
	}
}

func TestNormalizePipeDelimited(t *testing.T) {
	got := Normalize(&ChatResponse{Reply: "dog | animals | Beginner | a loyal pet | extra"})
	want := LearningItem{Word: "dog", Topic: "animals", Level: "Beginner", Hint: "a loyal pet | extra"}
	if got.Item != want {
		t.Fatalf("item = %+v, want %+v", got.Item, want)
	}
	if got.Fallback {
		t.Fatalf("pipe parse should not be a fallback")
	}
}

func TestNormalizeFallback(t *testing.T) {
	got := Normalize(&ChatResponse{Reply: "not enough parts"})
	if !got.Fallback {
		t.Fatalf("expected fallback")
	}
	if got.Item.Word != "Word" || got.Item.Topic != "General" || got.Item.Level != "All" {
		t.Fatalf("fallback item = %+v", got.Item)
	}
	if got.Item.Hint != "not enough parts" {
		t.Fatalf("fallback hint = %q, want cleaned text", got.Item.Hint)
	}
}

func TestNormalizeEmptyReplyUsesDefaultHint(t *testing.T) {
	got := Normalize(&ChatResponse{Reply: "   "})
	if !got.Fallback {
		t.Fatalf("expected fallback")
	}
	if got.Item.Hint != fallbackHint {
		t.Fatalf("hint = %q, want the fixed default", got.Item.Hint)
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	inputs := []string{
		"",
		"plain sentence",
		"<learned_json>not json</learned_json>",
		"<learned_json>[]</learned_json>",
		"a | b",
		"<learned_json>[{\"word\":1}]</learned_json>",
		strings.Repeat("|", 10),
	}
	for _, in := range inputs {
		got := Normalize(&ChatResponse{Reply: in})
		if got.Item.Word == "" {
			t.Fatalf("normalize(%q) produced an unusable item: %+v", in, got.Item)
		}
	}
}

func TestNormalizeMalformedBlockFallsThroughToPipes(t *testing.T) {
	got := Normalize(&ChatResponse{Reply: "sun | nature | Beginner | it shines <learned_json>broken</learned_json>"})
	if got.Item.Word != "sun" {
		t.Fatalf("expected pipe branch after bad block, got %+v", got.Item)
	}
	if strings.Contains(got.Display, "learned_json") {
		t.Fatalf("display still carries the tagged block: %q", got.Display)
	}
}

func TestStripLearnedBlockAlwaysApplied(t *testing.T) {
	resp := &ChatResponse{
		Reply:   `Try this <learned_json>[{"word":"x"}]</learned_json> today`,
		Learned: []LearningItem{{Word: "tree", Topic: "nature", Level: "Beginner", Hint: "tall plant"}},
	}
	got := Normalize(resp)
	if strings.Contains(got.Display, "learned_json") {
		t.Fatalf("display not stripped: %q", got.Display)
	}
	if got.Item.Word != "tree" {
		t.Fatalf("structured item should still win, got %+v", got.Item)
	}
}
