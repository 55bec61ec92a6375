package internal

import "time"

// CreateTestMessages builds a user/assistant exchange for tests
func CreateTestMessages(userText, assistantText string) []Message {
	return []Message{
		{
			ID:        "msg-user",
			Role:      RoleUser,
			Content:   userText,
			CreatedAt: time.Now(),
		},
		{
			ID:        "msg-assistant",
			Role:      RoleAssistant,
			Content:   assistantText,
			CreatedAt: time.Now(),
		},
	}
}

// CreateTestSession builds a session with a sample exchange for tests
func CreateTestSession(id string) Session {
	messages := CreateTestMessages("Hello, how are you?", "I'm doing well, thank you!")
	return Session{
		ID:        id,
		Title:     DefaultTitle(messages),
		UpdatedAt: time.Now(),
		Messages:  messages,
	}
}
