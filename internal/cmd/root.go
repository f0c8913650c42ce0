package cmd

import (
	"context"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configcmd "github.com/Iron-Ham/backoffice/internal/cmd/config"
	"github.com/Iron-Ham/backoffice/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "Terminal back office for admin resources",
	Long: `Backoffice browses and edits the resources of an admin API from the
terminal: paginated lists with search and sort, a per-row action menu,
create and edit forms, and confirmed deletes.

Without a subcommand it opens the interactive UI.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	offlineMode    bool
	offlineLatency = defaultOfflineLatency
)

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Root returns the root command, for documentation generators and tests.
func Root() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/backoffice/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	rootCmd.PersistentFlags().BoolVar(&offlineMode, "offline", false, "use built-in sample data instead of the API")
	rootCmd.PersistentFlags().DurationVar(&offlineLatency, "offline-latency", defaultOfflineLatency, "simulated request latency in offline mode")

	configcmd.Register(rootCmd)
}

func initConfig() {
	// A .env file in the working directory may carry the API token. Real
	// environment variables take precedence.
	_ = godotenv.Load()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/backoffice")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BACKOFFICE")
	// e.g. BACKOFFICE_API_TOKEN for api.token
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
