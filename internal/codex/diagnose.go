package codex

import (
	"regexp"
	"strconv"
)

// Diagnostic classifies why an invocation failed, beyond the raw exit code.
type Diagnostic int

const (
	// DiagNone means no failure signal was observed.
	DiagNone Diagnostic = iota
	// DiagUnauthenticated is an HTTP 401 from the backing service.
	DiagUnauthenticated
	// DiagForbidden is an HTTP 403.
	DiagForbidden
	// DiagProxyAuthRequired is an HTTP 407 from an intercepting proxy.
	DiagProxyAuthRequired
	// DiagRateLimited is an HTTP 429.
	DiagRateLimited
	// DiagServerError is any HTTP 5xx.
	DiagServerError
	// DiagProcessFailure is a non-zero exit with no status hint.
	DiagProcessFailure
)

func (d Diagnostic) String() string {
	switch d {
	case DiagUnauthenticated:
		return "unauthenticated"
	case DiagForbidden:
		return "forbidden"
	case DiagProxyAuthRequired:
		return "proxy-auth-required"
	case DiagRateLimited:
		return "rate-limited"
	case DiagServerError:
		return "server-error"
	case DiagProcessFailure:
		return "process-failure"
	default:
		return "none"
	}
}

// Advice is the user-facing suggestion for a diagnostic.
func (d Diagnostic) Advice() string {
	switch d {
	case DiagUnauthenticated:
		return "Session expired or not signed in. Run the login operation and try again."
	case DiagForbidden:
		return "Access denied. Check that the account has access to this model or feature."
	case DiagProxyAuthRequired:
		return "A network proxy is demanding credentials. Configure proxy authentication on this machine."
	case DiagRateLimited:
		return "Rate limit reached. Wait a moment before retrying."
	case DiagServerError:
		return "The service reported a server error. Retry shortly; if it persists, check the service status page."
	case DiagProcessFailure:
		return "The assistant process failed. Inspect the captured output and the incident journal for details."
	default:
		return ""
	}
}

// Status hints appear in error payloads and stderr chatter in several
// phrasings. The labeled form is tried first so an unrelated number in the
// message does not win over an explicit status.
var (
	labeledStatusRe = regexp.MustCompile(`(?i)(?:unexpected status|last status[: ]+)\s*(\d{3})`)
	bareStatusRe    = regexp.MustCompile(`\b(\d{3})\b`)
)

// ExtractStatusCode pulls an HTTP status code out of free-form error text.
// Returns 0 when no plausible status is present.
func ExtractStatusCode(text string) int {
	if m := labeledStatusRe.FindStringSubmatch(text); m != nil {
		if code := parseStatus(m[1]); code != 0 {
			return code
		}
	}
	if m := bareStatusRe.FindStringSubmatch(text); m != nil {
		return parseStatus(m[1])
	}
	return 0
}

func parseStatus(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 100 || n > 599 {
		return 0
	}
	return n
}

// Classify maps an exit code and an optional status hint to a diagnostic.
// The status hint dominates: a 401 with exit code 1 is an auth problem, not
// a generic process failure.
func Classify(exitCode, status int) Diagnostic {
	switch {
	case status == 401:
		return DiagUnauthenticated
	case status == 403:
		return DiagForbidden
	case status == 407:
		return DiagProxyAuthRequired
	case status == 429:
		return DiagRateLimited
	case status >= 500 && status <= 599:
		return DiagServerError
	case exitCode != 0:
		return DiagProcessFailure
	default:
		return DiagNone
	}
}
