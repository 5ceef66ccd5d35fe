// Package codex integrates the external codex CLI into the portable IDE.
//
// It resolves which executable to launch (portable Node runtime plus managed
// install under the workspace, or a host PATH fallback), builds a sanitized
// environment and argument vector, spawns the process through proc.Runner,
// decodes the line-oriented JSON protocol into transcript events, and maps
// failures to actionable diagnostics. Resolution is cached per session and
// re-run only after an install.
package codex
