package sse

import (
	"context"
	"io"

	"factlens/internal/domain"
)

// readChunkSize is the read buffer for the stream pump.
const readChunkSize = 4096

// ReadFrames pumps an SSE response body through the decoder and parser and
// delivers complete frames on the returned channel. The channel is closed
// when the stream ends, an I/O error occurs, or ctx is cancelled; the body is
// closed on every exit path. One goroutine produces, one consumer pulls;
// backpressure comes from the bounded channel.
func ReadFrames(ctx context.Context, body io.ReadCloser) <-chan domain.Frame {
	ch := make(chan domain.Frame, 16)
	go func() {
		defer close(ch)
		defer body.Close()

		var (
			dec    Decoder
			parser Parser
			buf    = make([]byte, readChunkSize)
		)

		emit := func(frames []domain.Frame) bool {
			for _, f := range frames {
				select {
				case ch <- f:
				case <-ctx.Done():
					return false
				}
			}
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			n, err := body.Read(buf)
			if n > 0 {
				if !emit(parser.Feed(dec.Decode(buf[:n]))) {
					return
				}
			}
			if err != nil {
				// EOF or I/O error: flush the dangling partial rune and any
				// unterminated frame so the trailing event is not dropped.
				if tail := dec.Flush(); tail != "" {
					if !emit(parser.Feed(tail)) {
						return
					}
				}
				emit(parser.Flush())
				return
			}
		}
	}()
	return ch
}
