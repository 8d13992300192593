package daylog

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/foodlookup"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
)

var (
	foodJSON  bool
	foodLimit int
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Look up foods in Open Food Facts",
}

var foodLookupCmd = &cobra.Command{
	Use:   "lookup <barcode>",
	Short: "Show a product's nutrition per 100 g by barcode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			item, err := lookupClient(e).LookupBarcode(ctx, args[0])
			if err != nil {
				return err
			}
			if foodJSON {
				return printJSON(cmd.OutOrStdout(), item)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			printFoodHeader(tw)
			printFoodRow(tw, item)
			return tw.Flush()
		})
	},
}

var foodSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search products by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			items, err := lookupClient(e).Search(ctx, args[0], foodLimit)
			if err != nil {
				return err
			}
			if foodJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			printFoodHeader(tw)
			for _, item := range items {
				printFoodRow(tw, item)
			}
			return tw.Flush()
		})
	},
}

func lookupClient(e *env) *foodlookup.Client {
	return &foodlookup.Client{BaseURL: e.cfg.Lookup.OpenFoodFactsURL}
}

func printFoodHeader(tw *tabwriter.Writer) {
	fmt.Fprintln(tw, "BARCODE\tNAME\tBRAND\tKCAL/100g\tP\tC\tF")
}

func printFoodRow(tw *tabwriter.Writer, item model.FoodItem) {
	n := item.Nutrition
	if n == nil {
		n = &model.Nutrition{}
	}
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", item.Barcode, item.Name, item.Brand,
		formatOptional(n.Calories, ""), formatOptional(n.Protein, ""), formatOptional(n.Carbs, ""), formatOptional(n.Fat, ""))
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodLookupCmd, foodSearchCmd)
	foodCmd.PersistentFlags().BoolVar(&foodJSON, "json", false, "Print JSON")
	foodSearchCmd.Flags().IntVar(&foodLimit, "limit", 10, "Maximum results")
}
