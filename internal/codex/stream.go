package codex

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventKind classifies transcript events produced by the stream parser.
type EventKind int

const (
	// EventAssistant is model output addressed to the user.
	EventAssistant EventKind = iota
	// EventUser is the user's own message echoed back by the protocol.
	EventUser
	// EventAction is a tool or function invocation notice.
	EventAction
	// EventError is a reported failure, possibly with an HTTP status.
	EventError
	// EventNotice is CLI chatter or unparseable output shown verbatim.
	EventNotice
)

func (k EventKind) String() string {
	switch k {
	case EventAssistant:
		return "assistant"
	case EventUser:
		return "user"
	case EventAction:
		return "action"
	case EventError:
		return "error"
	default:
		return "notice"
	}
}

// Event is one transcript entry decoded from the protocol stream.
type Event struct {
	Kind   EventKind
	Text   string
	Status int // HTTP status hint for EventError, 0 when absent
}

// After this many consecutive unparseable lines the parser stops echoing
// them, so a child that dumps binary noise cannot flood the transcript.
const malformedLimit = 5

// Parser decodes the line-oriented JSON protocol into transcript events. It
// buffers streaming text deltas until a turn-completion record arrives and
// suppresses consecutive duplicates. Not safe for concurrent use; drive it
// from the single goroutine consuming process output.
type Parser struct {
	buf             strings.Builder
	lastFingerprint string
	malformedStreak int
}

// NewParser returns a Parser with empty state.
func NewParser() *Parser {
	return &Parser{}
}

// Feed consumes one output line and returns the events it produced, possibly
// none. Order within the returned slice is the order items appeared in the
// record.
func (p *Parser) Feed(line string) []Event {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	if translated := TranslateLine(trimmed); translated != "" {
		return p.emit(Event{Kind: EventNotice, Text: translated})
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(trimmed), &record); err != nil {
		return p.malformed(trimmed)
	}
	p.malformedStreak = 0

	switch eventType := getString(record, "type"); eventType {
	case "response.output_text.delta", "response.output_text":
		delta, _ := firstString(record, "delta", "text")
		p.buf.WriteString(delta)
		return nil

	case "response.output_text.done", "response.output_item.done", "response.completed":
		return p.flushBuffer()

	case "error":
		return p.errorEvent(getString(record, "message"), "Codex error")

	case "turn.failed":
		msg := ""
		if errObj := getMap(record, "error"); errObj != nil {
			msg, _ = firstString(errObj, "message", "text")
		}
		return p.errorEvent(msg, "Turn failed")
	}

	var events []Event
	for _, item := range extractDisplayItems(record) {
		events = append(events, p.emit(Event{Kind: item.kind, Text: item.text})...)
	}
	return events
}

// Flush returns any buffered assistant text as a final event. Call it when
// the process exits so a turn cut short still surfaces its partial output.
func (p *Parser) Flush() []Event {
	return p.flushBuffer()
}

func (p *Parser) flushBuffer() []Event {
	if p.buf.Len() == 0 {
		return nil
	}
	text := p.buf.String()
	p.buf.Reset()
	return p.emit(Event{Kind: EventAssistant, Text: text})
}

func (p *Parser) errorEvent(msg, label string) []Event {
	if translated := TranslateLine(msg); translated != "" {
		return p.emit(Event{Kind: EventError, Text: translated})
	}
	if status := ExtractStatusCode(msg); status != 0 {
		return p.emit(Event{
			Kind:   EventError,
			Text:   fmt.Sprintf("%s (HTTP %d).", label, status),
			Status: status,
		})
	}
	if msg != "" {
		return p.emit(Event{Kind: EventError, Text: label + ": " + msg})
	}
	return p.emit(Event{Kind: EventError, Text: label + ": an error occurred."})
}

// malformed echoes an unparseable line as a notice, up to malformedLimit in
// a row. The limit crossing itself produces one suppression warning; later
// lines are dropped until a valid record resets the streak.
func (p *Parser) malformed(line string) []Event {
	p.malformedStreak++
	switch {
	case p.malformedStreak < malformedLimit:
		return p.emit(Event{Kind: EventNotice, Text: line})
	case p.malformedStreak == malformedLimit:
		return p.emit(Event{
			Kind: EventNotice,
			Text: "Suppressing further unparseable output lines.",
		})
	default:
		return nil
	}
}

// emit applies duplicate suppression: an event identical in kind and text to
// the previous one is dropped.
func (p *Parser) emit(ev Event) []Event {
	cleaned := strings.TrimSpace(ev.Text)
	if cleaned == "" {
		return nil
	}
	ev.Text = cleaned
	fingerprint := ev.Kind.String() + ":" + cleaned
	if fingerprint == p.lastFingerprint {
		return nil
	}
	p.lastFingerprint = fingerprint
	return []Event{ev}
}
