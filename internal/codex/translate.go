package codex

import "strings"

// TranslateLine rewrites well-known CLI chatter into concise user-facing
// messages. Returns "" when the line should be shown verbatim; blank lines
// are also left alone.
func TranslateLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)

	if strings.Contains(lower, "--ask-for-approval") &&
		(strings.Contains(lower, "unexpected argument") ||
			strings.Contains(lower, "unknown argument") ||
			strings.Contains(lower, "unrecognized")) {
		return "Error: this codex version does not recognize the --ask-for-approval option."
	}
	if strings.HasPrefix(lower, "tip:") && strings.Contains(lower, "--ask-for-approval") {
		return "Tip: to pass --ask-for-approval as a value, use -- --ask-for-approval."
	}
	if strings.HasPrefix(lower, "usage: codex exec") {
		return "Usage: codex exec --json --sandbox <SANDBOX_MODE> [PROMPT]."
	}
	if strings.HasPrefix(lower, "for more information") || strings.Contains(lower, "try '--help'") {
		return "For more information, use --help."
	}
	if strings.HasPrefix(lower, "error:") {
		if strings.Contains(lower, "unexpected argument") ||
			strings.Contains(lower, "unknown argument") ||
			strings.Contains(lower, "unrecognized") {
			return "Error: unknown or invalid option. See --help."
		}
		return "Error: invalid codex command. See --help."
	}
	if strings.HasPrefix(lower, "logged in using") {
		return "Signed in with ChatGPT."
	}
	if strings.HasPrefix(lower, "up to date in") {
		return "Up to date."
	}
	return ""
}
