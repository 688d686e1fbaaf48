package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	simulatePrice    string
	simulatePrevious string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-tick",
	Short: "Evaluate stored alerts against a given price without sending messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulatePrice == "" {
			return fmt.Errorf("--price is required")
		}

		price, err := decimal.NewFromString(simulatePrice)
		if err != nil {
			return fmt.Errorf("invalid --price value: %w", err)
		}

		var previous *decimal.Decimal
		if simulatePrevious != "" {
			prev, err := decimal.NewFromString(simulatePrevious)
			if err != nil {
				return fmt.Errorf("invalid --previous value: %w", err)
			}
			previous = &prev
		}

		return getApp().SimulateTick(cmd.Context(), price, previous)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulatePrice, "price", "", "Price to evaluate alerts against")
	simulateCmd.Flags().StringVar(&simulatePrevious, "previous", "", "Optional previous price for percent-change alerts")
}
