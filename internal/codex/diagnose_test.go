package codex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractStatusCodeLabeled(t *testing.T) {
	assert.Equal(t, 401, ExtractStatusCode("stream error: unexpected status 401 Unauthorized"))
	assert.Equal(t, 429, ExtractStatusCode("retry later, last status: 429"))
	assert.Equal(t, 503, ExtractStatusCode("Last Status 503"))
}

func TestExtractStatusCodeLabeledWinsOverBare(t *testing.T) {
	// The 200 appears first but the labeled 401 is the real signal.
	assert.Equal(t, 401, ExtractStatusCode("after 200 retries, unexpected status 401"))
}

func TestExtractStatusCodeBareFallback(t *testing.T) {
	assert.Equal(t, 429, ExtractStatusCode("got 429 from upstream"))
	assert.Equal(t, 0, ExtractStatusCode("no status here"))
	// Three digits outside the HTTP range are not a status.
	assert.Equal(t, 0, ExtractStatusCode("took 999 ms"))
}

func TestClassify(t *testing.T) {
	cases := []struct {
		exit, status int
		want         Diagnostic
	}{
		{1, 401, DiagUnauthenticated},
		{0, 401, DiagUnauthenticated},
		{1, 403, DiagForbidden},
		{1, 407, DiagProxyAuthRequired},
		{1, 429, DiagRateLimited},
		{1, 500, DiagServerError},
		{1, 599, DiagServerError},
		{1, 0, DiagProcessFailure},
		{1, 200, DiagProcessFailure},
		{0, 0, DiagNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.exit, tc.status),
			"exit=%d status=%d", tc.exit, tc.status)
	}
}

func TestAdviceCoversFailures(t *testing.T) {
	for _, d := range []Diagnostic{
		DiagUnauthenticated, DiagForbidden, DiagProxyAuthRequired,
		DiagRateLimited, DiagServerError, DiagProcessFailure,
	} {
		assert.NotEmpty(t, d.Advice(), d.String())
	}
	assert.Empty(t, DiagNone.Advice())
}
