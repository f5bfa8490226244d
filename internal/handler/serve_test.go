package handler

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func readResponses(t *testing.T, out *bytes.Buffer) map[string]wireResponse {
	t.Helper()
	got := make(map[string]wireResponse)
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var res wireResponse
		require.NoError(t, json.Unmarshal(sc.Bytes(), &res))
		got[res.ID] = res
	}
	require.NoError(t, sc.Err())

	return got
}

func TestServe(t *testing.T) {
	t.Parallel()
	h := setupHandler(t)

	var in strings.Builder
	const n = 20
	for i := range n {
		fmt.Fprintf(&in, `{"id":"save-%d","command":"save_prompt","args":{"prompt":{"title":"t%d","content":"c","tags":"x"}}}`+"\n", i, i)
	}
	in.WriteString("\n")
	in.WriteString(`{"id":"bogus","command":"nope"}` + "\n")

	var out bytes.Buffer
	require.NoError(t, h.Serve(t.Context(), strings.NewReader(in.String()), &out, 4))

	got := readResponses(t, &out)
	require.Len(t, got, n+1)
	for i := range n {
		res, ok := got[fmt.Sprintf("save-%d", i)]
		require.True(t, ok)
		assert.Empty(t, res.Error)
	}
	assert.Equal(t, `unknown command: "nope"`, got["bogus"].Error)

	// all writes landed.
	out.Reset()
	in.Reset()
	in.WriteString(`{"id":"all","command":"get_all_prompts"}` + "\n")
	require.NoError(t, h.Serve(t.Context(), strings.NewReader(in.String()), &out, 1))

	got = readResponses(t, &out)
	var ps []map[string]any
	require.NoError(t, json.Unmarshal(got["all"].Result, &ps))
	assert.Len(t, ps, n)
}

func TestServeMalformedLine(t *testing.T) {
	t.Parallel()
	h := setupHandler(t)

	var out bytes.Buffer
	in := "{not json\n" + `{"id":"ok","command":"get_all_prompts"}` + "\n"
	require.NoError(t, h.Serve(t.Context(), strings.NewReader(in), &out, 0))

	got := readResponses(t, &out)
	require.Len(t, got, 2)
	assert.Contains(t, got[""].Error, ErrInvalidArgs.Error())
	assert.Empty(t, got["ok"].Error)
}

func TestServeOversizedLine(t *testing.T) {
	t.Parallel()
	const limit = 16 << 10
	h := setupHandler(t, WithMaxRequestSize(limit))

	// spans several reads of the default 4KiB buffer.
	large := strings.Repeat("a", 8<<10)
	huge := strings.Repeat("b", 2*limit)

	var in strings.Builder
	fmt.Fprintf(&in, `{"id":"large","command":"save_prompt","args":{"prompt":{"title":"l","content":"%s","tags":""}}}`+"\n", large)
	fmt.Fprintf(&in, `{"id":"huge","command":"save_prompt","args":{"prompt":{"title":"h","content":"%s","tags":""}}}`+"\n", huge)
	in.WriteString(`{"id":"all","command":"get_all_prompts"}` + "\n")

	var out bytes.Buffer
	require.NoError(t, h.Serve(t.Context(), strings.NewReader(in.String()), &out, 1))

	got := readResponses(t, &out)
	require.Len(t, got, 3)
	assert.Empty(t, got["large"].Error)
	assert.Contains(t, got[""].Error, ErrInvalidArgs.Error())
	assert.Contains(t, got[""].Error, ErrRequestTooLarge.Error())
	assert.Empty(t, got["all"].Error)

	var ps []map[string]any
	require.NoError(t, json.Unmarshal(got["all"].Result, &ps))
	require.Len(t, ps, 1)
	assert.Equal(t, large, ps[0]["content"])
}

func TestServeLastLineWithoutNewline(t *testing.T) {
	t.Parallel()
	h := setupHandler(t)

	var out bytes.Buffer
	in := `{"id":"ok","command":"get_all_prompts"}`
	require.NoError(t, h.Serve(t.Context(), strings.NewReader(in), &out, 1))

	got := readResponses(t, &out)
	require.Len(t, got, 1)
	assert.Empty(t, got["ok"].Error)
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()
	h := setupHandler(t)

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	var out bytes.Buffer
	go func() { done <- h.Serve(ctx, pr, &out, 1) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel on an idle reader")
	}
}
