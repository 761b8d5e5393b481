package domain

import "time"

type ChatReply struct {
	Response       string `json:"response"`
	SessionID      string `json:"session_id"`
	ConversationID int64  `json:"conversation_id"`
}

type ChatMessage struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Conversation struct {
	ID        int64         `json:"id"`
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type ChatHealth struct {
	Status                string `json:"status"`
	KnowledgeBaseEntries  int    `json:"knowledge_base_entries"`
	EntriesWithEmbeddings int    `json:"entries_with_embeddings"`
	Ready                 bool   `json:"ready"`
}
