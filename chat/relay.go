// Package chat relays a conversation turn to a hosted generative model and
// streams the reply back as an ordered, finite, cancellable sequence of
// text chunks.
package chat

import (
	"context"
	"iter"
)

type Sender string

// Wire vocabulary of the chat widget.
const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Turn is one prior exchange of the conversation, not persisted beyond the
// UI session.
type Turn struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

type Chunk struct {
	Text string
}

// FallbackMessage is the single user-visible reply when the provider is
// unreachable or misconfigured.
const FallbackMessage = "Une erreur est survenue lors du traitement de votre demande."

// GeneratorFunc produces the model's incremental output for one turn.
type GeneratorFunc func(ctx context.Context, message string, history []Turn) iter.Seq2[string, error]

type Relay struct {
	generate GeneratorFunc
}

func NewRelay(generate GeneratorFunc) *Relay {
	return &Relay{generate: generate}
}

// Converse starts one assistant turn. The returned stream emits chunks in
// generation order and always terminates, even when the provider produces
// nothing. Close abandons the turn; a superseded stream stops without
// interleaving its remaining chunks with a newer one.
func (r *Relay) Converse(ctx context.Context, message string, history []Turn) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		chunks: make(chan Chunk),
		cancel: cancel,
	}
	go s.run(ctx, r.generate, message, history)
	return s
}

// Stream is a lazy, finite, non-restartable chunk sequence. The channel
// closing is the terminal marker; Err is meaningful once the channel is
// closed.
type Stream struct {
	chunks chan Chunk
	cancel context.CancelFunc
	err    error
}

func (s *Stream) Chunks() <-chan Chunk {
	return s.chunks
}

// Err reports the provider failure, if any, once Chunks has closed.
func (s *Stream) Err() error {
	return s.err
}

// Close abandons the stream. Safe to call at any time, including after the
// stream has already finished.
func (s *Stream) Close() {
	s.cancel()
}

func (s *Stream) run(ctx context.Context, generate GeneratorFunc, message string, history []Turn) {
	defer close(s.chunks)
	defer s.cancel()

	for text, err := range generate(ctx, message, history) {
		if err != nil {
			s.err = err
			return
		}
		if text == "" {
			continue
		}
		select {
		case s.chunks <- Chunk{Text: text}:
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		}
	}
}
