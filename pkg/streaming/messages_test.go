package streaming

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_LineDelimitedWithSequence(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.Write(TypeReply, ReplyPayload{Command: "roll", Message: "rolled 4"}))
	require.NoError(t, w.Write(TypeError, ErrorPayload{Command: "move", Error: "bad index"}))

	sc := bufio.NewScanner(&buf)
	var envs []Envelope
	for sc.Scan() {
		var e Envelope
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		envs = append(envs, e)
	}
	require.Len(t, envs, 2)

	assert.Equal(t, TypeReply, envs[0].Type)
	assert.Equal(t, uint64(1), envs[0].Seq)
	assert.Equal(t, uint64(2), envs[1].Seq)

	var reply ReplyPayload
	require.NoError(t, DecodePayload(envs[0], &reply))
	assert.Equal(t, ReplyPayload{Command: "roll", Message: "rolled 4"}, reply)

	var perr ErrorPayload
	require.NoError(t, DecodePayload(envs[1], &perr))
	assert.Equal(t, "bad index", perr.Error)
}

func TestWriter_UnencodablePayload(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	err := w.Write(TypeState, map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestDecodePayload_TypeMismatch(t *testing.T) {
	e := Envelope{Type: TypeWKT, Payload: json.RawMessage(`[1,2]`)}
	var p WKTPayload
	err := DecodePayload(e, &p)
	assert.ErrorContains(t, err, "decoding wkt payload")
}
