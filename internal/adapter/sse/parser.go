package sse

import (
	"strings"

	"factlens/internal/domain"
)

const (
	eventPrefix = "event:"
	dataPrefix  = "data:"
)

// Parser groups decoded text into SSE frames. State carried between Feed
// calls: the unconsumed trailing partial line and the in-progress frame
// fields. Field order within a frame does not matter; a blank line finalizes
// the frame only once a payload has been captured.
type Parser struct {
	carry      string
	eventKind  string
	payload    string
	payloadSet bool
}

// Feed consumes a chunk of decoded text and returns zero or more complete
// frames. The last element of the split (possibly an incomplete line) is
// retained as carry-over and excluded from this pass.
func (p *Parser) Feed(text string) []domain.Frame {
	lines := strings.Split(p.carry+text, "\n")
	p.carry = lines[len(lines)-1]

	var frames []domain.Frame
	for _, line := range lines[:len(lines)-1] {
		if f := p.consumeLine(line); f != nil {
			frames = append(frames, *f)
		}
	}
	return frames
}

// Flush applies the frame-boundary logic to whatever remains when the stream
// ends without a final blank line: the carry-over is processed as a complete
// line, then any in-progress frame with a captured payload is emitted.
func (p *Parser) Flush() []domain.Frame {
	var frames []domain.Frame
	if p.carry != "" {
		line := p.carry
		p.carry = ""
		if f := p.consumeLine(line); f != nil {
			frames = append(frames, *f)
		}
	}
	if p.payloadSet {
		frames = append(frames, p.finalize())
	}
	return frames
}

// consumeLine handles a single complete line and returns a frame when the
// line finalizes one.
func (p *Parser) consumeLine(line string) *domain.Frame {
	line = strings.TrimSuffix(line, "\r")

	switch {
	case line == "":
		// Blank line with no payload yet is a keep-alive.
		if !p.payloadSet {
			return nil
		}
		f := p.finalize()
		return &f
	case strings.HasPrefix(line, eventPrefix):
		p.eventKind = strings.TrimSpace(line[len(eventPrefix):])
	case strings.HasPrefix(line, dataPrefix):
		// A later data: line overwrites an earlier one within the same frame.
		p.payload = strings.TrimPrefix(line[len(dataPrefix):], " ")
		p.payloadSet = true
	}
	// Comments (":" prefix) and unknown fields are ignored.
	return nil
}

// finalize emits the in-progress frame and resets state for the next one.
func (p *Parser) finalize() domain.Frame {
	kind := p.eventKind
	if kind == "" {
		kind = domain.DefaultEventKind
	}
	f := domain.Frame{Kind: kind, RawPayload: p.payload}
	p.eventKind = ""
	p.payload = ""
	p.payloadSet = false
	return f
}
