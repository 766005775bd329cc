package models

// WebhookPayload is the body Meta posts to the WhatsApp webhook. Only the fields the
// chat queries need are decoded.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry is one entry of a webhook notification.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange wraps the notification contents.
type WebhookChange struct {
	Value WebhookValue `json:"value"`
	Field string       `json:"field"`
}

// WebhookValue holds the inbound messages of a change.
type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []InboundMessage `json:"messages"`
}

// InboundMessage is a message sent by a WhatsApp user.
type InboundMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *TextContent        `json:"text,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
}

// TextContent is the body of a text message.
type TextContent struct {
	Body string `json:"body"`
}

// InteractiveContent is a button or list reply.
type InteractiveContent struct {
	Type        string      `json:"type"`
	ButtonReply *ReplyToken `json:"button_reply,omitempty"`
	ListReply   *ReplyToken `json:"list_reply,omitempty"`
}

// ReplyToken identifies the pressed button or selected list row.
type ReplyToken struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// OutboundMessageRequest is a manual notification pushed through the API.
type OutboundMessageRequest struct {
	To      string `json:"to"`
	Message string `json:"message" binding:"required"`
}
