package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	analysisApp "github.com/felixgeelhaar/convrisk/internal/analysis/application"
)

var (
	analyzeFrom   string
	analyzeTo     string
	analyzeFactor string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a conversion's overflow bounds and truncation risk",
	Long: `Analyze a conversion without running it.

The report shows the planned operation sequence, the smallest and largest
inputs that convert without overflow, and which values will be truncated.

Examples:
  convrisk analyze --from int32 --to int16 --factor 3/2
  convrisk analyze --from float64 --to int32
  convrisk analyze --from int64 --to float32 --factor pi/180`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		report, err := app.Analyzer.Analyze(analysisApp.ConversionSpec{
			From:   analyzeFrom,
			To:     analyzeTo,
			Factor: analyzeFactor,
		})
		if err != nil {
			return err
		}

		fmt.Println(report.Render())
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFrom, "from", "", "source representation (e.g. int32)")
	analyzeCmd.Flags().StringVar(&analyzeTo, "to", "", "destination representation (e.g. int16)")
	analyzeCmd.Flags().StringVar(&analyzeFactor, "factor", "", "exact scale factor (e.g. 3/2, 1000, pi/180)")
	_ = analyzeCmd.MarkFlagRequired("from")
	_ = analyzeCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(analyzeCmd)
}
