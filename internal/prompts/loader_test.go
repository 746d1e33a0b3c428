package prompts

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(AnalysisFile, "extract-job-posting")
	require.NoError(t, err)
	assert.Contains(t, prompt, "reclutador técnico")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.ErrorContains(t, err, "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(AnalysisFile, "nonexistent-key")
	assert.ErrorContains(t, err, "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	got := Format("Hello {{.Name}}, meet {{.Other}} and {{.Missing}}", map[string]string{
		"Name":  "Ada",
		"Other": "Grace",
	})
	assert.Equal(t, "Hello Ada, meet Grace and {{.Missing}}", got)
}

func TestList_Sorted(t *testing.T) {
	ClearCache()

	keys, err := List(AnalysisFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"extract-job-posting", "extract-job-posting-en", "record-shape"}, keys)
}

func TestJobPostingInstruction(t *testing.T) {
	ClearCache()

	for _, english := range []bool{false, true} {
		instruction := JobPostingInstruction(english)
		assert.NotContains(t, instruction, "{{.")

		// The requested shape must itself be valid JSON naming every record field.
		start := strings.Index(instruction, "{")
		require.GreaterOrEqual(t, start, 0)
		var shape map[string]any
		require.NoError(t, json.Unmarshal([]byte(instruction[start:]), &shape))
		for _, field := range []string{"company", "role", "key_skills", "vibe", "target_keywords"} {
			assert.Contains(t, shape, field)
		}
	}
}
