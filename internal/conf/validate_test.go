package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	return &Settings{
		WebServer: WebServerSettings{
			Port:       "5020",
			UploadPath: "uploads",
		},
		Detector: DetectorSettings{MinConfidence: 0.1},
		Classifier: ClassifierSettings{
			TopK:          5,
			MaxCrops:      6,
			PadRatio:      0.15,
			LowConfidence: 0.2,
		},
		Filter: FilterSettings{
			PersonConfidence:   0.3,
			AnimalConfidence:   0.4,
			IndoorConfidence:   0.6,
			IndoorMinCount:     2,
			FallbackConfidence: 0.6,
		},
	}
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettingsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Settings)
		substr string
	}{
		{"missing port", func(s *Settings) { s.WebServer.Port = "" }, "port is required"},
		{"missing upload path", func(s *Settings) { s.WebServer.UploadPath = "" }, "upload path is required"},
		{"threshold above one", func(s *Settings) { s.Filter.PersonConfidence = 1.5 }, "between 0.0 and 1.0"},
		{"negative threshold", func(s *Settings) { s.Detector.MinConfidence = -0.1 }, "between 0.0 and 1.0"},
		{"zero max crops", func(s *Settings) { s.Classifier.MaxCrops = 0 }, "maxcrops"},
		{"zero top k", func(s *Settings) { s.Classifier.TopK = 0 }, "topk"},
		{"zero indoor count", func(s *Settings) { s.Filter.IndoorMinCount = 0 }, "indoormincount"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			settings := validSettings()
			tt.mutate(settings)

			err := ValidateSettings(settings)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}
