package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	analysisApp "github.com/felixgeelhaar/convrisk/internal/analysis/application"
)

var (
	convertFrom   string
	convertTo     string
	convertFactor string
	convertPolicy string
)

var convertCmd = &cobra.Command{
	Use:   "convert <value>",
	Short: "Convert one value under an overflow policy",
	Long: `Convert a concrete value after checking it against the analysis.

Policies decide what happens when the value lies outside the good range:
  reject  fail the conversion (default)
  clamp   saturate the input at the good-range boundary first
  allow   convert anyway with native wrap/saturate semantics

Truncation is never blocked; it is reported by check and analyze.

Examples:
  convrisk convert --from int32 --to int16 --factor 3/2 11
  convrisk convert --from int32 --to int16 --policy clamp 40000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized")
		}

		policy := app.DefaultPolicy
		if convertPolicy != "" {
			var err error
			policy, err = analysisApp.ParsePolicy(convertPolicy)
			if err != nil {
				return err
			}
		}

		result, err := app.Analyzer.Convert(analysisApp.ConversionSpec{
			From:   convertFrom,
			To:     convertTo,
			Factor: convertFactor,
		}, args[0], policy)
		if err != nil {
			return err
		}

		fmt.Println(result.String())
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "source representation (e.g. int32)")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "destination representation (e.g. int16)")
	convertCmd.Flags().StringVar(&convertFactor, "factor", "", "exact scale factor (e.g. 3/2, 1000, pi/180)")
	convertCmd.Flags().StringVar(&convertPolicy, "policy", "", "overflow policy: reject, clamp, or allow")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(convertCmd)
}
