package content

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestEmojiFor(t *testing.T) {
	cases := map[string]string{
		"Artificial Intelligence in AI": "🤖",
		"Cloud Computing":               "☁️",
		"Machine Learning Basics":       "🧠",
		"Quantum Mechanics":             defaultEmoji,
	}
	for topic, want := range cases {
		if got := emojiFor(topic); got != want {
			t.Errorf("emojiFor(%q) = %q, want %q", topic, got, want)
		}
	}
}

func TestEmojiForIsCaseInsensitive(t *testing.T) {
	if emojiFor("BLOCKCHAIN trends") != emojiFor("blockchain trends") {
		t.Error("keyword matching must ignore case")
	}
}

func TestBuildPromptMentionsTopicAndEmoji(t *testing.T) {
	prompt := buildPrompt("Cyber Security")
	if !strings.Contains(prompt, "Cyber Security") {
		t.Error("prompt must contain the topic")
	}
	if !strings.Contains(prompt, "🔒") {
		t.Error("prompt must contain the topic emoji")
	}
}

func TestTruncatePost(t *testing.T) {
	short := "short post"
	if got := truncatePost(short, 100); got != short {
		t.Errorf("short posts must pass through, got %q", got)
	}
	if got := truncatePost(short, 0); got != short {
		t.Errorf("a zero budget disables truncation, got %q", got)
	}

	long := strings.Repeat("a", 50)
	got := truncatePost(long, 10)
	if !strings.HasPrefix(got, strings.Repeat("a", 10)) {
		t.Errorf("truncation must keep the leading runes, got %q", got)
	}
	if !strings.HasSuffix(got, "#LinkedInPost") {
		t.Errorf("truncated posts end with the fallback hashtag, got %q", got)
	}
}

func TestTruncatePostCountsRunes(t *testing.T) {
	emojis := strings.Repeat("🚀", 20)
	if utf8.RuneCountInString(emojis) != 20 {
		t.Fatal("test setup: expected 20 runes")
	}

	if got := truncatePost(emojis, 20); got != emojis {
		t.Errorf("a post exactly at the budget must pass through, got %q", got)
	}

	got := truncatePost(emojis, 5)
	if !strings.HasPrefix(got, strings.Repeat("🚀", 5)) {
		t.Errorf("truncation must not split multi-byte runes, got %q", got)
	}
}
