package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	catalogCommands "github.com/felixgeelhaar/convrisk/internal/catalog/application/commands"
	catalogQueries "github.com/felixgeelhaar/convrisk/internal/catalog/application/queries"
)

var (
	catalogAddFrom   string
	catalogAddTo     string
	catalogAddFactor string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage registered conversion definitions",
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Register a named conversion",
	Long: `Register a conversion definition under a label.

The definition is analyzed before it is stored, so only buildable
conversions enter the catalog.

Examples:
  convrisk catalog add inches-to-cm --from int32 --to int32 --factor 254/100
  convrisk catalog add seconds-to-ms --from int64 --to int64 --factor 1000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.RegisterConversionHandler == nil {
			return fmt.Errorf("catalog requires a database connection")
		}

		result, err := app.RegisterConversionHandler.Handle(cmd.Context(), catalogCommands.RegisterConversionCommand{
			Label:  args[0],
			From:   catalogAddFrom,
			To:     catalogAddTo,
			Factor: catalogAddFactor,
		})
		if err != nil {
			return fmt.Errorf("failed to register conversion: %w", err)
		}

		fmt.Println("Conversion registered!")
		fmt.Printf("  Label: %s\n", result.Label)
		fmt.Printf("  ID: %s\n", result.ID.String()[:8])
		fmt.Println(result.Report.Render())
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered conversions",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ListConversionsHandler == nil {
			return fmt.Errorf("catalog requires a database connection")
		}

		dtos, err := app.ListConversionsHandler.Handle(cmd.Context(), catalogQueries.ListConversionsQuery{})
		if err != nil {
			return fmt.Errorf("failed to list conversions: %w", err)
		}

		if len(dtos) == 0 {
			fmt.Println("No conversions registered.")
			return nil
		}

		fmt.Printf("%-24s %-10s %-10s %s\n", "LABEL", "FROM", "TO", "FACTOR")
		for _, dto := range dtos {
			fmt.Printf("%-24s %-10s %-10s %s\n", dto.Label, dto.From, dto.To, dto.Factor)
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <label>",
	Short: "Show a registered conversion and its analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetConversionHandler == nil {
			return fmt.Errorf("catalog requires a database connection")
		}

		result, err := app.GetConversionHandler.Handle(cmd.Context(), catalogQueries.GetConversionQuery{Label: args[0]})
		if err != nil {
			return fmt.Errorf("failed to fetch conversion: %w", err)
		}

		dto := result.Conversion
		fmt.Printf("Label: %s\n", dto.Label)
		fmt.Printf("ID: %s\n", dto.ID)
		fmt.Printf("Registered: %s\n", dto.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Println(result.Report.Render())
		return nil
	},
}

func init() {
	catalogAddCmd.Flags().StringVar(&catalogAddFrom, "from", "", "source representation (e.g. int32)")
	catalogAddCmd.Flags().StringVar(&catalogAddTo, "to", "", "destination representation (e.g. int16)")
	catalogAddCmd.Flags().StringVar(&catalogAddFactor, "factor", "", "exact scale factor (e.g. 3/2, 1000, pi/180)")
	_ = catalogAddCmd.MarkFlagRequired("from")
	_ = catalogAddCmd.MarkFlagRequired("to")

	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}
