// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock removes markdown code fence markers from a model reply.
// Every literal "```json" and "```" marker is dropped, wherever it appears,
// so "```json\n{...}\n```", "```\n{...}\n```" and "{...}" all yield "{...}".
func CleanJSONBlock(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
