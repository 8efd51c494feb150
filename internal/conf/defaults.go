// defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// setDefaultConfig sets the default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main settings
	viper.SetDefault("main.name", "BirdScan")

	// Webserver settings
	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.host", "0.0.0.0")
	viper.SetDefault("webserver.port", "5001")
	viper.SetDefault("webserver.bodylimit", "32M")
	viper.SetDefault("webserver.uploadpath", "uploads")

	// Detector inference service settings
	viper.SetDefault("detector.endpoint", "http://localhost:8500")
	viper.SetDefault("detector.timeout", 30)
	viper.SetDefault("detector.minconfidence", 0.1)

	// Classifier inference service settings
	viper.SetDefault("classifier.endpoint", "http://localhost:8501")
	viper.SetDefault("classifier.timeout", 30)
	viper.SetDefault("classifier.topk", 5)
	viper.SetDefault("classifier.maxcrops", 6)
	viper.SetDefault("classifier.padratio", 0.15)
	viper.SetDefault("classifier.lowconfidence", 0.2)

	// Subject filter thresholds
	viper.SetDefault("filter.personconfidence", 0.3)
	viper.SetDefault("filter.animalconfidence", 0.4)
	viper.SetDefault("filter.indoorconfidence", 0.6)
	viper.SetDefault("filter.indoormincount", 2)
	viper.SetDefault("filter.fallbackconfidence", 0.6)

	// eBird enrichment provider settings
	viper.SetDefault("ebird.apikey", "")
	viper.SetDefault("ebird.baseurl", "https://api.ebird.org/v2")
	viper.SetDefault("ebird.cachettl", 24)
	viper.SetDefault("ebird.region", "US")
	viper.SetDefault("ebird.connecttimeout", 3)
	viper.SetDefault("ebird.readtimeout", 5)
}
