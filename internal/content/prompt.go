package content

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const defaultEmoji = "💡"

// topicEmojis maps topic keywords to the hook emoji the prompt leads with.
// First match wins, so more specific keywords come before generic ones.
var topicEmojis = []struct {
	keyword string
	emoji   string
}{
	{"technology", "🚀"},
	{"marketing", "📊"},
	{"machine learning", "🧠"},
	{"ai", "🤖"},
	{"cyber security", "🔒"},
	{"network", "🌐"},
	{"data", "📈"},
	{"business", "💼"},
	{"development", "💻"},
	{"cloud", "☁️"},
	{"blockchain", "⛓️"},
	{"iot", "📱"},
	{"automation", "⚙️"},
	{"analytics", "📊"},
	{"innovation", "💡"},
}

func emojiFor(topic string) string {
	topicLower := strings.ToLower(topic)
	for _, e := range topicEmojis {
		if strings.Contains(topicLower, e.keyword) {
			return e.emoji
		}
	}
	return defaultEmoji
}

func buildPrompt(topic string) string {
	emoji := emojiFor(topic)

	return fmt.Sprintf(`Generate a professional LinkedIn post about %[1]s.
The post should:
1. Start with an engaging hook using %[2]s
2. Include 2-3 key points about the topic
3. Use relevant emojis for each section
4. End with a call to action
5. Include relevant hashtags
6. Keep the tone professional but engaging
7. Format the topic name in bold
8. Ensure the content is accurate and informative
9. Use proper spacing and formatting
10. Keep the post under 2500 characters to account for emojis and formatting

Example format:
%[2]s **Topic Name**

[Brief engaging introduction - 1-2 sentences]

🔑 Key Point 1
[Concise explanation - 2-3 sentences]

💡 Key Point 2
[Concise explanation - 2-3 sentences]

[Call to action - 1 sentence]

#RelevantHashtags #MoreHashtags`, topic, emoji)
}

// truncatePost keeps generated copy within the platform's character budget.
// Counting is rune-based; emojis count as one.
func truncatePost(content string, maxLength int) string {
	if maxLength <= 0 || utf8.RuneCountInString(content) <= maxLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:maxLength]) + "...\n\n#LinkedInPost"
}
