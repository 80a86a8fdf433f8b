package model

// ChatMessage is the JSON payload exchanged over the chat channel and
// returned by the history endpoint. Older history rows carry the body in
// "text" instead of "messageText"; Body resolves either.
type ChatMessage struct {
	UserID      int64  `json:"userID"`
	MessageText string `json:"messageText"`
	Text        string `json:"text,omitempty"`
	Room        string `json:"room"`
	IsAdmin     bool   `json:"isAdmin,omitempty"`
	Nonce       string `json:"nonce,omitempty"`

	// Self marks a locally originated message; never sent on the wire.
	Self bool `json:"-"`
}

func (m ChatMessage) Body() string {
	if m.MessageText != "" {
		return m.MessageText
	}
	return m.Text
}
