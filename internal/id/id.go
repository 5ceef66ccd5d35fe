// Package id generates short unique identifiers used to correlate one
// assistant invocation across log lines and incident entries.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Generate creates an identifier of the form <prefix>_<12 hex chars>,
// e.g. "inv_3fa2b81c90de". Six random bytes are plenty for correlating
// entries within a single workspace journal.
func Generate(prefix string) string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is close to impossible; fall back to a
		// timestamp so callers still get something unique enough.
		return prefix + "_" + time.Now().Format("150405.000000")
	}
	return prefix + "_" + hex.EncodeToString(b)
}
