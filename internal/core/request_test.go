package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisRequestValidate(t *testing.T) {
	langs := SupportedLanguages()

	tests := []struct {
		name    string
		req     AnalysisRequest
		wantErr error
	}{
		{
			name: "Valid python request",
			req:  AnalysisRequest{Code: "a/b", Language: "python", AnalysisType: AnalysisGeneral},
		},
		{
			name:    "Empty code",
			req:     AnalysisRequest{Code: "", Language: "go"},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "Whitespace-only code",
			req:     AnalysisRequest{Code: "   \n\t ", Language: "go"},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "Unsupported language",
			req:     AnalysisRequest{Code: "IDENTIFICATION DIVISION.", Language: "cobol"},
			wantErr: ErrUnsupportedLanguage,
		},
		{
			name:    "Empty language",
			req:     AnalysisRequest{Code: "x = 1", Language: ""},
			wantErr: ErrUnsupportedLanguage,
		},
		{
			name: "Language matching is case-insensitive",
			req:  AnalysisRequest{Code: "x = 1", Language: "Python"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(langs)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLanguageSet(t *testing.T) {
	langs := SupportedLanguages()

	assert.True(t, langs.Contains("go"))
	assert.True(t, langs.Contains("csharp"))
	assert.False(t, langs.Contains("cobol"))

	assert.Equal(t, "go", langs.FromExtension(".go"))
	assert.Equal(t, "python", langs.FromExtension(".PY"))
	assert.Equal(t, "", langs.FromExtension(".txt"))

	names := langs.Names()
	assert.Len(t, names, 11)
	assert.IsNonDecreasing(t, names)

	assert.Equal(t, []string{".py"}, langs.Extensions("python"))
}

func TestParseAnalysisType(t *testing.T) {
	assert.Equal(t, AnalysisSecurity, ParseAnalysisType("security"))
	assert.Equal(t, AnalysisPerformance, ParseAnalysisType("Performance"))
	assert.Equal(t, AnalysisQuality, ParseAnalysisType("quality"))
	assert.Equal(t, AnalysisGeneral, ParseAnalysisType(""))
	assert.Equal(t, AnalysisGeneral, ParseAnalysisType("full"))
}
