// validate.go settings validation
package conf

import (
	"errors"
	"fmt"
)

// ValidateSettings checks settings for values that would misbehave at runtime.
func ValidateSettings(settings *Settings) error {
	var validationErrors []string

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	if err := validateThresholds(settings); err != nil {
		validationErrors = append(validationErrors, err.Error())
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("validation errors: %v", validationErrors)
	}

	return nil
}

func validateWebServerSettings(settings *WebServerSettings) error {
	if settings.Port == "" {
		return errors.New("webserver port is required")
	}
	if settings.UploadPath == "" {
		return errors.New("webserver upload path is required")
	}
	return nil
}

func validateThresholds(settings *Settings) error {
	unitRange := []struct {
		name  string
		value float64
	}{
		{"detector.minconfidence", settings.Detector.MinConfidence},
		{"classifier.padratio", settings.Classifier.PadRatio},
		{"classifier.lowconfidence", settings.Classifier.LowConfidence},
		{"filter.personconfidence", settings.Filter.PersonConfidence},
		{"filter.animalconfidence", settings.Filter.AnimalConfidence},
		{"filter.indoorconfidence", settings.Filter.IndoorConfidence},
		{"filter.fallbackconfidence", settings.Filter.FallbackConfidence},
	}
	for _, v := range unitRange {
		if v.value < 0 || v.value > 1 {
			return fmt.Errorf("%s must be between 0.0 and 1.0, got %v", v.name, v.value)
		}
	}

	if settings.Classifier.MaxCrops < 1 {
		return errors.New("classifier.maxcrops must be at least 1")
	}
	if settings.Classifier.TopK < 1 {
		return errors.New("classifier.topk must be at least 1")
	}
	if settings.Filter.IndoorMinCount < 1 {
		return errors.New("filter.indoormincount must be at least 1")
	}

	return nil
}
