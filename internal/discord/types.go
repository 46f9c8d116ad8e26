package discord

// Wire types, trimmed to the fields the bot reads.

type apiMessage struct {
	ID     string     `json:"id"`
	Author apiAuthor  `json:"author"`
	Embeds []apiEmbed `json:"embeds"`
}

type apiAuthor struct {
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
}

type apiEmbed struct {
	Description string `json:"description"`
}

type apiRole struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WebhookPayload is the outbound message body for both create and edit.
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds"`
}

type Embed struct {
	Title     string       `json:"title,omitempty"`
	Color     int          `json:"color,omitempty"`
	Fields    []EmbedField `json:"fields,omitempty"`
	Footer    *EmbedFooter `json:"footer,omitempty"`
	Timestamp string       `json:"timestamp,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}
