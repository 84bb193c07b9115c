package main

import (
	"fmt"
	"os"

	"freightdesk/internal/config"
	"freightdesk/internal/database"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	db      *gorm.DB
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "freightdesk",
	Short: "Freightdesk CLI - freight pricing back-office tool",
	Long: `A CLI tool for the freight pricing back-office: price a shipment the way
the dispatch desk does, load tariff workbooks and migrate the database.`,
	PersistentPreRunE:  persistentPreRun,
	PersistentPostRunE: persistentPostRun,
	SilenceUsage:       true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml or ./config.yaml)")
}

// persistentPreRun loads config and opens the database for every subcommand.
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger = config.NewLogger(cfg.Logging, "freightdesk-cli")
	decimal.MarshalJSONWithoutQuotes = true

	db, err = database.NewConnection(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	logger.Debug().Msg("database connected")
	return nil
}

func persistentPostRun(cmd *cobra.Command, args []string) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
