package chat

import (
	"context"
	"iter"

	"github.com/pkg/errors"
	"github.com/ticketzen/go-web-gateway/internal/config"
	"google.golang.org/genai"
)

// ErrNotConfigured means no API key was provided; the caller should answer
// chat turns with the fallback message instead of failing requests.
var ErrNotConfigured = errors.New("chat provider not configured")

// NewGeminiRelay builds a relay backed by the hosted Gemini model named in
// the configuration.
func NewGeminiRelay(ctx context.Context, cfg config.ChatConfig) (*Relay, error) {
	apiKey := cfg.GetGeminiAPIKey()
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[NewGeminiRelay] create client")
	}

	gen := &geminiGenerator{client: client, model: cfg.GetChatModel()}
	return NewRelay(gen.stream), nil
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) stream(ctx context.Context, message string, history []Turn) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		contents := make([]*genai.Content, 0, len(history))
		for _, turn := range history {
			role := genai.Role(genai.RoleUser)
			if turn.Sender == SenderBot {
				role = genai.RoleModel
			}
			contents = append(contents, genai.NewContentFromText(turn.Text, role))
		}

		chatCfg := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		}

		conversation, err := g.client.Chats.Create(ctx, g.model, chatCfg, contents)
		if err != nil {
			yield("", errors.Wrap(err, "[geminiGenerator] start chat"))
			return
		}

		for resp, err := range conversation.SendMessageStream(ctx, genai.Part{Text: message}) {
			if err != nil {
				yield("", errors.Wrap(err, "[geminiGenerator] stream"))
				return
			}
			if !yield(resp.Text(), nil) {
				return
			}
		}
	}
}
