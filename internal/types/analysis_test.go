//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  AnalysisRecord
		wantErr bool
		errMsg  string
	}{
		{
			name:   "complete record",
			record: AnalysisRecord{Company: "Acme", Role: "Engineer", KeySkills: []string{"Go"}, Vibe: "speed"},
		},
		{
			name:   "missing skills is allowed",
			record: AnalysisRecord{Company: "Acme", Role: "Engineer"},
		},
		{
			name:    "missing company",
			record:  AnalysisRecord{Role: "Engineer"},
			wantErr: true,
			errMsg:  "Company",
		},
		{
			name:    "missing role",
			record:  AnalysisRecord{Company: "Acme"},
			wantErr: true,
			errMsg:  "Role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnalysisRecord_JSONFieldNames(t *testing.T) {
	raw := `{"company":"Acme","role":"Engineer","key_skills":["Go","SQL"],"vibe":"speed","target_keywords":["x"]}`

	var record AnalysisRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &record))

	assert.Equal(t, "Acme", record.Company)
	assert.Equal(t, "Engineer", record.Role)
	assert.Equal(t, []string{"Go", "SQL"}, record.KeySkills)
	assert.Equal(t, "speed", record.Vibe)
	assert.Equal(t, []string{"x"}, record.TargetKeywords)
	assert.Empty(t, record.Experience)
	assert.Nil(t, record.Stack)
}

func TestEncodedImage_DataURL(t *testing.T) {
	img := EncodedImage{MimeType: "image/png", Data: "AAAA"}
	assert.Equal(t, "data:image/png;base64,AAAA", img.DataURL())

	assert.Empty(t, EncodedImage{}.DataURL())
}

func TestLanguageAndTab_Valid(t *testing.T) {
	assert.True(t, LangES.Valid())
	assert.True(t, LangEN.Valid())
	assert.False(t, Language("fr").Valid())

	for _, tab := range Tabs {
		assert.True(t, tab.Valid(), string(tab))
	}
	assert.False(t, Tab("admin").Valid())
}
