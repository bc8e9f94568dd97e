package websocket

import "strings"

// Topics a client can be subscribed to.
const (
	TopicArticles = "articles"
	TopicEvents   = "events"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string `json:"action"`
	Topic   string `json:"topic"`
	Payload any    `json:"payload"`
}

// topicsFor lists the topics an event of eventType is delivered on. Every
// event goes to the audit stream; article changes also go to the article
// stream.
func topicsFor(eventType string) []string {
	if strings.HasPrefix(eventType, "article.") {
		return []string{TopicArticles, TopicEvents}
	}
	return []string{TopicEvents}
}
