package models

import "time"

// Message is a direct message between two users.
type Message struct {
	ID        string
	FromID    string
	ToID      string
	Text      string
	CreatedAt time.Time
}

// PartnerID is the other side of the conversation as seen by userID.
func (m *Message) PartnerID(userID string) string {
	if m.FromID == userID {
		return m.ToID
	}
	return m.FromID
}

// Conversation is the latest message exchanged with one partner.
type Conversation struct {
	PartnerID string
	Last      *Message
}
