// config.go: This file contains the configuration for the BirdScan backend. It defines the settings struct and functions to load the settings.
package conf

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var configFiles embed.FS

// MainSettings contains application-wide settings.
type MainSettings struct {
	Name string // name of the node/instance
}

// WebServerSettings contains settings for the HTTP server.
type WebServerSettings struct {
	Debug      bool   // true to enable debug logging of requests
	Host       string // interface to bind to
	Port       string // port to listen on
	BodyLimit  string // request body size limit, echo format e.g. "32M"
	UploadPath string // directory where uploaded images are stored
}

// DetectorSettings contains settings for the object detector inference service.
type DetectorSettings struct {
	Endpoint      string  // base URL of the detector inference service
	Timeout       int     // request timeout in seconds
	MinConfidence float64 // detections below this confidence are discarded
}

// ClassifierSettings contains settings for the species classifier inference service.
type ClassifierSettings struct {
	Endpoint      string  // base URL of the classifier inference service
	Timeout       int     // request timeout in seconds
	TopK          int     // number of ranked candidates to return
	MaxCrops      int     // maximum crops classified per request, for latency control
	PadRatio      float64 // bounding box padding ratio for crop extraction
	LowConfidence float64 // top confidence below this sets the low-confidence flag
}

// FilterSettings contains confidence thresholds for the subject filter.
type FilterSettings struct {
	PersonConfidence   float64 // person detections above this reject the image
	AnimalConfidence   float64 // non-bird animal detections above this reject the image
	IndoorConfidence   float64 // indoor objects above this count towards indoor rejection
	IndoorMinCount     int     // indoor objects required to reject a birdless image
	FallbackConfidence float64 // highest-confidence object above this is treated as a bird guess
}

// EBirdSettings contains settings for the eBird enrichment provider.
type EBirdSettings struct {
	APIKey         string // eBird API key
	BaseURL        string // eBird API base URL
	CacheTTL       int    // taxonomy cache time-to-live in hours
	Region         string // region code for recent observations
	ConnectTimeout int    // connect timeout in seconds
	ReadTimeout    int    // read timeout in seconds
}

// Settings contains all configuration options for the BirdScan backend.
type Settings struct {
	Debug bool // true to enable debug behavior

	Version   string `yaml:"-" mapstructure:"-"` // build version, runtime value
	BuildDate string `yaml:"-" mapstructure:"-"` // build date, runtime value

	Main       MainSettings
	WebServer  WebServerSettings
	Detector   DetectorSettings
	Classifier ClassifierSettings
	Filter     FilterSettings
	EBird      EBirdSettings
}

var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into a Settings struct.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths := getConfigPaths()
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	// Read configuration file
	err := viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// getConfigPaths returns the directories searched for a config file.
func getConfigPaths() []string {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "birdscan"))
	}
	return paths
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPath := filepath.Join(getConfigPaths()[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	// Create directories for config file
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	// Write default config file
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Setting returns the current settings instance, initializing it if necessary
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load()
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}
