package main

import (
	"encoding/json"
	"fmt"
	"os"

	"freightdesk/internal/pricing"
	"freightdesk/internal/repository"

	"github.com/spf13/cobra"
)

var (
	quoteReq   pricing.Request
	quoteDebug bool
)

// quoteCmd prices a shipment exactly like POST /api/detect-pricing
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a shipment and print the decision as JSON",
	Long: `Resolve the client, pick the pricing pathway (A: contract, B: quotation,
C: general tariff) and print the result. Nothing is written to the database.`,
	Example: `  freightdesk quote --cuit 20-12345678-9 --weight 45 --declared 100000
  freightdesk quote --client 12 --weight 8 --volume 0.5 --destination Jujuy --debug`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	f := quoteCmd.Flags()
	f.Int64Var(&quoteReq.ClientID, "client", 0, "Client id")
	f.StringVar(&quoteReq.RecipientCUIT, "cuit", "", "Recipient CUIT")
	f.StringVar(&quoteReq.RecipientName, "name", "", "Recipient name")
	f.StringVar(&quoteReq.Origin, "origin", "", "Origin city (default from config)")
	f.StringVar(&quoteReq.Destination, "destination", "", "Destination city (default from config)")
	f.IntVar(&quoteReq.PackageQuantity, "packages", 0, "Package count")
	f.Float64Var(&quoteReq.WeightKg, "weight", 0, "Real weight in kg")
	f.Float64Var(&quoteReq.VolumeM3, "volume", 0, "Volume in m³")
	f.Float64Var(&quoteReq.DeclaredValue, "declared", 0, "Declared value for insurance")
	f.BoolVar(&quoteDebug, "debug", false, "Include the debug trace")
}

func runQuote(cmd *cobra.Command, args []string) error {
	engine := pricing.NewEngine(
		repository.NewEntityRepository(db),
		repository.NewTariffRepository(db),
		repository.NewQuotationRepository(db),
		cfg.Pricing.Engine(),
	)

	res, err := engine.Price(cmd.Context(), quoteReq)
	if err != nil {
		return fmt.Errorf("pricing failed: %w", err)
	}
	if !quoteDebug {
		res.Debug = nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
