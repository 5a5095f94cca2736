package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ticketzen/go-web-gateway/chat"
	"github.com/ticketzen/go-web-gateway/server"
)

func staticRelay(chunks ...string) *chat.Relay {
	return chat.NewRelay(func(ctx context.Context, message string, history []chat.Turn) iter.Seq2[string, error] {
		return func(yield func(string, error) bool) {
			for _, chunk := range chunks {
				if !yield(chunk, nil) {
					return
				}
			}
		}
	})
}

func failingRelay(err error, chunks ...string) *chat.Relay {
	return chat.NewRelay(func(ctx context.Context, message string, history []chat.Turn) iter.Seq2[string, error] {
		return func(yield func(string, error) bool) {
			for _, chunk := range chunks {
				if !yield(chunk, nil) {
					return
				}
			}
			yield("", err)
		}
	})
}

func postChat(t *testing.T, s *server.Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	s.ServeHTTP(rec, req)
	return rec
}

// sseTexts decodes each data frame up to the terminal sentinel.
func sseTexts(t *testing.T, body string) []string {
	t.Helper()
	var texts []string
	sawDone := false
	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			continue
		}
		payload, found := strings.CutPrefix(line, "data: ")
		require.True(t, found, "unexpected SSE line: %q", line)
		require.False(t, sawDone, "frame after the terminal sentinel")
		if payload == "[DONE]" {
			sawDone = true
			continue
		}
		var chunk struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.Unmarshal([]byte(payload), &chunk))
		texts = append(texts, chunk.Text)
	}
	require.True(t, sawDone, "stream must end with the [DONE] sentinel")
	return texts
}

func TestChatStreamsChunksAsServerSentEvents(t *testing.T) {
	s := newTestServer(t, server.WithRelay(staticRelay("Bonjour", " !")))

	rec := postChat(t, s, `{"message":"salut","history":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	require.Equal(t, []string{"Bonjour", " !"}, sseTexts(t, rec.Body.String()))
}

func TestChatEmptyStreamStillTerminates(t *testing.T) {
	s := newTestServer(t, server.WithRelay(staticRelay()))

	rec := postChat(t, s, `{"message":"salut"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, sseTexts(t, rec.Body.String()))
}

func TestChatWithoutRelayAnswersWithFallback(t *testing.T) {
	s := newTestServer(t) // No GEMINI_API_KEY, no override

	rec := postChat(t, s, `{"message":"salut"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{chat.FallbackMessage}, sseTexts(t, rec.Body.String()))
}

func TestChatProviderErrorBeforeOutputSendsFallback(t *testing.T) {
	s := newTestServer(t, server.WithRelay(failingRelay(errors.New("model unreachable"))))

	rec := postChat(t, s, `{"message":"salut"}`)
	require.Equal(t, []string{chat.FallbackMessage}, sseTexts(t, rec.Body.String()))
}

func TestChatProviderErrorAfterPartialOutputKeepsChunks(t *testing.T) {
	s := newTestServer(t, server.WithRelay(failingRelay(errors.New("connection reset"), "Bonjour")))

	rec := postChat(t, s, `{"message":"salut"}`)
	// Partial output is not replaced by the fallback, but the stream still
	// terminates cleanly.
	require.Equal(t, []string{"Bonjour"}, sseTexts(t, rec.Body.String()))
}

func TestChatRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t, server.WithRelay(staticRelay("unused")))

	rec := postChat(t, s, `{"message":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatHistoryReachesRelay(t *testing.T) {
	var gotHistory []chat.Turn
	var gotMessage string
	relay := chat.NewRelay(func(ctx context.Context, message string, history []chat.Turn) iter.Seq2[string, error] {
		gotMessage = message
		gotHistory = history
		return func(yield func(string, error) bool) {}
	})
	s := newTestServer(t, server.WithRelay(relay))

	postChat(t, s, `{"message":"Merci","history":[{"sender":"user","text":"Quels trajets ?"},{"sender":"bot","text":"Voici les trajets disponibles."}]}`)

	require.Equal(t, "Merci", gotMessage)
	require.Equal(t, []chat.Turn{
		{Sender: chat.SenderUser, Text: "Quels trajets ?"},
		{Sender: chat.SenderBot, Text: "Voici les trajets disponibles."},
	}, gotHistory)
}
