package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/birdscan/birdscan-go/cmd/serve"
	"github.com/birdscan/birdscan-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "birdscan",
		Short: "BirdScan identification backend",
		Long:  "Bird identification backend serving image upload, species search, and health endpoints.",
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(serve.Command(settings))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Sync settings with viper so command-line flags take precedence
		return viper.Unmarshal(settings)
	}

	return rootCmd
}

// setupFlags defines global flags and binds them to viper keys.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolP("debug", "d", settings.Debug, "Enable debug output")
	rootCmd.PersistentFlags().String("host", settings.WebServer.Host, "Interface the web server binds to")
	rootCmd.PersistentFlags().String("port", settings.WebServer.Port, "Port the web server listens on")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		cobra.CheckErr(err)
	}
	if err := viper.BindPFlag("webserver.host", rootCmd.PersistentFlags().Lookup("host")); err != nil {
		cobra.CheckErr(err)
	}
	if err := viper.BindPFlag("webserver.port", rootCmd.PersistentFlags().Lookup("port")); err != nil {
		cobra.CheckErr(err)
	}
}
