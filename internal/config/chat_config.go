package config

type ChatConfig interface {
	GetGeminiAPIKey() string
	GetChatModel() string
}

type Chat struct{}

var _ ChatConfig = Chat{}

func (Chat) GetGeminiAPIKey() string {
	return GetEnv("GEMINI_API_KEY", "")
}

func (Chat) GetChatModel() string {
	return GetEnv("CHAT_MODEL", "gemini-2.5-flash-lite")
}
