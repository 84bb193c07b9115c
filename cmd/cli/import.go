package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"freightdesk/internal/repository"
	"freightdesk/internal/service"

	"github.com/spf13/cobra"
)

var (
	importSheet  string
	importOutput string
)

var importCmd = &cobra.Command{
	Use:   "import-tariffs <file>",
	Short: "Load tariff brackets from an .xlsx workbook",
	Long: `Read a tariff workbook (columns Origen, Destino, Tipo, Desde kg, Hasta kg, Precio)
and store every valid row in one transaction. Rejected rows are listed with their
spreadsheet row number.`,
	Example: `  freightdesk import-tariffs ./tarifas-2026.xlsx
  freightdesk import-tariffs ./tarifas.xlsx --sheet Marzo --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Sheet name (default: first sheet)")
	importCmd.Flags().StringVar(&importOutput, "output", "table", "Output format: table or json")
}

func runImport(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	svc := service.NewTariffService(
		repository.NewTariffRepository(db),
		repository.NewTransactionManager(db),
		nil,
		logger,
	)

	logger.Info().Str("file", filePath).Msg("importing tariffs")
	res, err := svc.ImportTariffs(cmd.Context(), f, importSheet)
	if err != nil {
		return err
	}

	switch strings.ToLower(importOutput) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "table":
		printImportTable(res)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", importOutput)
	}
}

func printImportTable(res service.ImportTariffsResponse) {
	fmt.Printf("\nImport of sheet %q\n", res.Sheet)
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Rows read:\t%d\n", res.TotalRows)
	fmt.Fprintf(w, "Imported:\t%d\n", res.Imported)
	fmt.Fprintf(w, "Rejected:\t%d\n", len(res.Errors))
	w.Flush()

	if len(res.Errors) == 0 {
		return
	}
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ROW\tERROR")
	for _, e := range res.Errors {
		fmt.Fprintf(w, "%d\t%s\n", e.Row, e.Message)
	}
	w.Flush()
}
