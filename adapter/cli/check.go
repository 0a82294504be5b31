package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	analysisApp "github.com/felixgeelhaar/convrisk/internal/analysis/application"
)

var (
	checkFrom   string
	checkTo     string
	checkFactor string
)

var checkCmd = &cobra.Command{
	Use:   "check <value>",
	Short: "Check one value against a conversion's good range",
	Long: `Check whether a concrete value survives a conversion.

The value is parsed in the source representation, then tested against the
conversion's overflow bounds and truncation classification. The conversion
itself is not performed.

Examples:
  convrisk check --from int32 --to int16 --factor 3/2 11
  convrisk check --from int32 --to int16 40000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		result, err := app.Analyzer.Check(analysisApp.ConversionSpec{
			From:   checkFrom,
			To:     checkTo,
			Factor: checkFactor,
		}, args[0])
		if err != nil {
			return err
		}

		fmt.Println(result.Render())
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkFrom, "from", "", "source representation (e.g. int32)")
	checkCmd.Flags().StringVar(&checkTo, "to", "", "destination representation (e.g. int16)")
	checkCmd.Flags().StringVar(&checkFactor, "factor", "", "exact scale factor (e.g. 3/2, 1000, pi/180)")
	_ = checkCmd.MarkFlagRequired("from")
	_ = checkCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(checkCmd)
}
