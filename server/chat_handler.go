package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/ticketzen/go-web-gateway/chat"
)

type chatRequest struct {
	Message string      `json:"message"`
	History []chat.Turn `json:"history"`
}

type chatChunk struct {
	Text string `json:"text"`
}

const chatDoneSentinel = "[DONE]"

// ChatHandler relays a chat turn as Server-Sent Events: one data frame per
// chunk, terminated by an explicit [DONE] sentinel. Whatever happens, the
// stream ends with the sentinel; the widget is never left "typing" forever.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		if s.relay == nil {
			writeChatFrame(w, flusher, chat.FallbackMessage)
			writeChatDone(w, flusher)
			return
		}

		// Client disconnect cancels r.Context(), which tears the stream
		// down; Close also covers early returns.
		stream := s.relay.Converse(r.Context(), req.Message, req.History)
		defer stream.Close()

		sent := 0
		for chunk := range stream.Chunks() {
			writeChatFrame(w, flusher, chunk.Text)
			sent++
		}

		if err := stream.Err(); err != nil {
			log.Error().Err(err).Msg("chat stream failed")
			if sent == 0 {
				writeChatFrame(w, flusher, chat.FallbackMessage)
			}
		}
		writeChatDone(w, flusher)
	}
}

func writeChatFrame(w http.ResponseWriter, flusher http.Flusher, text string) {
	data, err := json.Marshal(chatChunk{Text: text})
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

func writeChatDone(w http.ResponseWriter, flusher http.Flusher) {
	fmt.Fprintf(w, "data: %s\n\n", chatDoneSentinel)
	flusher.Flush()
}
