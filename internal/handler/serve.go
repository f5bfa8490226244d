package handler

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const defaultMaxRequestSize = 32 << 20

var ErrRequestTooLarge = errors.New("request too large")

// requestLine is one line read from the request stream.
type requestLine struct {
	data    []byte
	tooLong bool
	err     error
}

// Serve reads newline-delimited JSON requests from r and writes one response
// line per request to w. Up to workers requests run at once; responses may
// arrive out of order and carry the request ID.
//
// A line longer than the request size limit is answered with an error and
// skipped. Serve returns when r is exhausted or ctx is done; in the latter
// case it does not wait for r to be readable again.
func (h *Handler) Serve(ctx context.Context, r io.Reader, w io.Writer, workers int) error {
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	enc := json.NewEncoder(w)
	write := func(res Response) error {
		mu.Lock()
		defer mu.Unlock()

		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}

		return nil
	}

	lines := make(chan requestLine)
	stop := make(chan struct{})
	defer close(stop)
	go readLines(r, h.maxRequestSize, lines, stop)

	var readErr error

loop:
	for {
		select {
		case <-gctx.Done():
			slog.Debug("serve stopped", "reason", context.Cause(gctx))
			break loop

		case l, ok := <-lines:
			if !ok {
				break loop
			}

			if l.err != nil {
				readErr = l.err
				break loop
			}

			if l.tooLong {
				slog.Warn("bad request", "error", ErrRequestTooLarge, "limit", h.maxRequestSize)
				res := Response{Error: fmt.Errorf("%w: %w", ErrInvalidArgs, ErrRequestTooLarge).Error()}
				g.Go(func() error { return write(res) })

				continue
			}

			var req Request
			if err := json.Unmarshal(l.data, &req); err != nil {
				slog.Warn("bad request", "error", err)
				res := Response{Error: fmt.Sprintf("%v: %v", ErrInvalidArgs, err)}
				g.Go(func() error { return write(res) })

				continue
			}

			g.Go(func() error {
				return write(h.Dispatch(gctx, req))
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if readErr != nil {
		return fmt.Errorf("reading requests: %w", readErr)
	}

	return nil
}

// readLines sends every non-blank line of r to out until r is exhausted or
// stop is closed. out is closed on return.
func readLines(r io.Reader, limit int, out chan<- requestLine, stop <-chan struct{}) {
	defer close(out)

	send := func(l requestLine) bool {
		select {
		case out <- l:
			return true
		case <-stop:
			return false
		}
	}

	br := bufio.NewReader(r)
	for {
		data, tooLong, err := readLine(br, limit)
		if len(data) > 0 || tooLong {
			if !send(requestLine{data: data, tooLong: tooLong}) {
				return
			}
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				send(requestLine{err: err})
			}

			return
		}
	}
}

// readLine reads up to and including the next newline. A line over limit
// bytes is consumed and discarded, and reported with tooLong.
func readLine(br *bufio.Reader, limit int) (data []byte, tooLong bool, err error) {
	for {
		var frag []byte
		frag, err = br.ReadSlice('\n')
		if !tooLong {
			if len(data)+len(frag) > limit {
				tooLong = true
				data = nil
			} else {
				data = append(data, frag...)
			}
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}

		return bytes.TrimSpace(data), tooLong, err
	}
}
