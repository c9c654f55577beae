// Package streaming defines the line-delimited JSON messages the console
// writes in machine-readable mode.
package streaming

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Message type constants. Engine events use their own kind names.
const (
	TypeReply = "reply"
	TypeError = "error"
	TypeState = "state"
	TypeWKT   = "wkt"
)

// Envelope wraps every message written to the stream.
type Envelope struct {
	Type    string          `json:"type"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

// ReplyPayload is the textual result of a console command.
type ReplyPayload struct {
	Command string `json:"command"`
	Message string `json:"message"`
}

// ErrorPayload reports a failed console command.
type ErrorPayload struct {
	Command string `json:"command"`
	Error   string `json:"error"`
}

// WKTPayload carries the board geometry as well-known text.
type WKTPayload struct {
	Edges     string `json:"edges"`
	Triangles string `json:"triangles"`
}

// DecodePayload unmarshals an envelope payload into v.
func DecodePayload(e Envelope, v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", e.Type, err)
	}
	return nil
}

// Writer encodes envelopes one per line. It is safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
	seq uint64
}

// NewWriter returns a Writer that encodes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write encodes payload and emits it as the next envelope of type typ.
func (w *Writer) Write(typ string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", typ, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.seq++
	return w.enc.Encode(Envelope{Type: typ, Seq: w.seq, Payload: raw})
}
