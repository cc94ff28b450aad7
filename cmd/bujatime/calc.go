package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bujatime/bujatime/internal/calculators"
)

func newCalcCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Run the site calculators from the terminal",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	cmd.AddCommand(
		newCompoundCommand(a, &asJSON),
		newElectricityCommand(a, &asJSON),
		newVATCommand(a, &asJSON),
	)
	return cmd
}

func newCompoundCommand(a *app, asJSON *bool) *cobra.Command {
	in := calculators.CompoundInput{}

	cmd := &cobra.Command{
		Use:   "compound",
		Short: "Project savings with monthly compounding",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if in.Years <= 0 {
				return fmt.Errorf("--years must be positive, got %d", in.Years)
			}
			if in.AnnualRate < 0 {
				return fmt.Errorf("--rate must not be negative, got %g", in.AnnualRate)
			}
			result := calculators.CompoundInterest(in)
			if *asJSON {
				return writeJSON(a.out, result)
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "year\tinvested\tinterest\tbalance\t")
			for _, row := range result.Yearly {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", row.Year, won(row.TotalInvested), won(row.TotalInterest), won(row.Balance))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "\nfinal amount   %s\ntotal invested %s\ntotal interest %s\n",
				won(result.FinalAmount), won(result.TotalInvested), won(result.TotalInterest))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Float64Var(&in.Principal, "principal", 10_000_000, "Initial deposit in won")
	flags.Float64Var(&in.Monthly, "monthly", 500_000, "Monthly deposit in won")
	flags.Float64Var(&in.AnnualRate, "rate", 7, "Annual return in percent")
	flags.IntVar(&in.Years, "years", 20, "Investment horizon in years")
	return cmd
}

func newElectricityCommand(a *app, asJSON *bool) *cobra.Command {
	var (
		kwh    float64
		season string
	)

	cmd := &cobra.Command{
		Use:   "electricity",
		Short: "Estimate a residential electricity bill",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if kwh < 0 {
				return fmt.Errorf("--kwh must not be negative, got %g", kwh)
			}
			parsed, err := calculators.ParseSeason(season)
			if err != nil {
				return err
			}
			bill := calculators.Electricity(kwh, parsed)
			if *asJSON {
				return writeJSON(a.out, bill)
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			for _, tier := range bill.Breakdown {
				fmt.Fprintf(tw, "%g-%g kWh\t%g kWh x %g\t%s\n", tier.From, tier.To, tier.KWh, tier.Rate, won(tier.Charge))
			}
			fmt.Fprintf(tw, "base fee\t\t%s\n", won(bill.BaseFee))
			fmt.Fprintf(tw, "energy charge\t\t%s\n", won(bill.EnergyCharge))
			fmt.Fprintf(tw, "climate charge\t\t%s\n", won(bill.ClimateCharge))
			fmt.Fprintf(tw, "fuel adjustment\t\t%s\n", won(bill.FuelAdjust))
			fmt.Fprintf(tw, "vat\t\t%s\n", won(bill.VAT))
			fmt.Fprintf(tw, "power fund\t\t%s\n", won(bill.Fund))
			fmt.Fprintf(tw, "total\t\t%s\n", won(bill.Total))
			if kwh > 0 {
				fmt.Fprintf(tw, "per kWh\t\t%s\n", won(bill.UnitPrice))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&kwh, "kwh", 350, "Monthly usage in kWh")
	cmd.Flags().StringVar(&season, "season", string(calculators.SeasonOther), "Tariff season: summer or other")
	return cmd
}

func newVATCommand(a *app, asJSON *bool) *cobra.Command {
	var (
		mode   string
		amount float64
		rate   float64
	)

	cmd := &cobra.Command{
		Use:   "vat",
		Short: "Split an amount into supply value and VAT",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			parsed, err := calculators.ParseVATMode(mode)
			if err != nil {
				return err
			}
			split, err := calculators.VAT(parsed, amount, rate)
			if err != nil {
				return err
			}
			if *asJSON {
				return writeJSON(a.out, split)
			}
			fmt.Fprintf(a.out, "supply %s\nvat    %s\ntotal  %s\n", won(split.Supply), won(split.VAT), won(split.Total))
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(calculators.VATFromTotal), "Which amount is given: supply, vat, or total")
	cmd.Flags().Float64Var(&amount, "amount", 110_000, "Amount in won")
	cmd.Flags().Float64Var(&rate, "rate", calculators.DefaultVATRate, "VAT rate in percent")
	return cmd
}
