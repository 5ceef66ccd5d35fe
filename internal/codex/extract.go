package codex

import (
	"encoding/json"
	"strings"
)

// displayItem is one renderable piece pulled out of a protocol record.
type displayItem struct {
	kind EventKind
	text string
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

func firstString(m map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// textFromContent flattens a message content field. The protocol uses both a
// bare string and an array of typed parts.
func textFromContent(content any) []string {
	var texts []string
	switch c := content.(type) {
	case string:
		if c != "" {
			texts = append(texts, c)
		}
	case []any:
		for _, part := range c {
			switch p := part.(type) {
			case string:
				texts = append(texts, p)
			case map[string]any:
				switch getString(p, "type") {
				case "output_text", "output_markdown", "text", "input_text":
					text := getString(p, "text")
					if text == "" {
						text = getString(p, "content")
					}
					if text != "" {
						texts = append(texts, text)
					}
				}
			}
		}
	}
	return texts
}

func roleKind(role string) (EventKind, bool) {
	switch role {
	case "assistant":
		return EventAssistant, true
	case "user":
		return EventUser, true
	}
	return 0, false
}

// itemsFromMessagePayload handles {"type":"message","role":...,"content":...}
// shapes, falling back to a flat "message" field when content is absent.
func itemsFromMessagePayload(payload map[string]any) []displayItem {
	if getString(payload, "type") != "message" {
		return nil
	}
	kind, ok := roleKind(getString(payload, "role"))
	if !ok {
		return nil
	}

	var items []displayItem
	if texts := textFromContent(payload["content"]); len(texts) > 0 {
		for _, text := range texts {
			items = append(items, displayItem{kind: kind, text: text})
		}
		return items
	}
	if msg := getString(payload, "message"); msg != "" {
		items = append(items, displayItem{kind: kind, text: msg})
	}
	return items
}

// itemsFromItemPayload handles the "item" wrapper shapes that carry typed
// assistant or user content.
func itemsFromItemPayload(item map[string]any) []displayItem {
	itemType := getString(item, "type")
	if itemType == "message" {
		return itemsFromMessagePayload(item)
	}

	var kind EventKind
	switch itemType {
	case "agent_message", "assistant_message":
		kind = EventAssistant
	case "user_message", "user":
		kind = EventUser
	default:
		return nil
	}

	var items []displayItem
	for _, text := range textFromContent(item["content"]) {
		items = append(items, displayItem{kind: kind, text: text})
	}
	if text := getString(item, "text"); text != "" {
		items = append(items, displayItem{kind: kind, text: text})
	}
	if msg := getString(item, "message"); msg != "" {
		items = append(items, displayItem{kind: kind, text: msg})
	}
	return items
}

// collectToolCalls gathers nested tool_call / tool_calls / tools objects
// from record containers.
func collectToolCalls(containers ...map[string]any) []map[string]any {
	var calls []map[string]any
	for _, container := range containers {
		if container == nil {
			continue
		}
		if call := getMap(container, "tool_call"); call != nil {
			calls = append(calls, call)
		}
		list, ok := container["tool_calls"].([]any)
		if !ok {
			list, _ = container["tools"].([]any)
		}
		for _, raw := range list {
			if call, ok := raw.(map[string]any); ok {
				calls = append(calls, call)
			}
		}
	}
	return calls
}

// formatAction renders a tool invocation as "name: arguments". Records that
// look like actions only by shape (name plus arguments) are accepted too.
func formatAction(payload map[string]any) (string, bool) {
	if payload == nil {
		return "", false
	}
	rawType := strings.ToLower(getString(payload, "type"))
	isAction := rawType == "tool_call" || rawType == "function_call" ||
		rawType == "action" || rawType == "tool"

	name, hasName := firstString(payload, "name", "tool", "tool_name")
	argsVal, hasArgs := anyOf(payload, "arguments", "args", "input", "parameters")
	if !isAction && !(hasName && hasArgs) {
		return "", false
	}
	if !hasName {
		name, hasName = firstString(payload, "id")
	}

	if !hasName && !hasArgs {
		desc, _ := firstString(payload, "message", "description")
		if strings.TrimSpace(desc) != "" {
			return strings.TrimSpace(desc), true
		}
		return "", false
	}

	var argText string
	if hasArgs {
		argText = renderArgs(argsVal)
	}
	switch {
	case name != "" && argText != "":
		return name + ": " + argText, true
	case name != "":
		return name, true
	case argText != "":
		return argText, true
	}
	return "", false
}

func anyOf(m map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func renderArgs(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	case nil:
		return ""
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return strings.Trim(string(data), `"`)
	}
}

// extractDisplayItems pulls every renderable item out of one protocol
// record, deduplicating within the record.
func extractDisplayItems(record map[string]any) []displayItem {
	var items []displayItem
	eventType := getString(record, "type")
	payload := getMap(record, "payload")

	if eventType == "event_msg" && payload != nil {
		msg, _ := firstString(payload, "message", "text")
		switch getString(payload, "type") {
		case "agent_message", "assistant_message":
			if msg != "" {
				items = append(items, displayItem{kind: EventAssistant, text: msg})
			}
		case "user_message", "user":
			if msg != "" {
				items = append(items, displayItem{kind: EventUser, text: msg})
			}
		default:
			if action, ok := formatAction(payload); ok {
				items = append(items, displayItem{kind: EventAction, text: action})
			}
		}
	}

	if eventType == "response_item" && payload != nil {
		items = append(items, itemsFromMessagePayload(payload)...)
		if action, ok := formatAction(payload); ok {
			items = append(items, displayItem{kind: EventAction, text: action})
		}
	}

	item := getMap(record, "item")
	if item != nil {
		items = append(items, itemsFromItemPayload(item)...)
		if action, ok := formatAction(item); ok {
			items = append(items, displayItem{kind: EventAction, text: action})
		}
	}

	for _, call := range collectToolCalls(record, payload, item) {
		if action, ok := formatAction(call); ok {
			items = append(items, displayItem{kind: EventAction, text: action})
		}
	}

	seen := make(map[displayItem]bool, len(items))
	uniques := items[:0]
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			uniques = append(uniques, it)
		}
	}
	return uniques
}
