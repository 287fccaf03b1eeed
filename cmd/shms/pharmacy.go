package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shms/shms/internal/domain/medication"
)

func pharmacyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pharmacy",
		Short: "Manage medicine stock",
	}

	addCmd := &cobra.Command{
		Use:   "add <name> <quantity>",
		Short: "Add stock, creating the medicine if needed",
		Args:  cobra.ExactArgs(2),
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			expiry, _ := cmd.Flags().GetString("expiry")
			if err := a.store.AddMedicine(args[0], qty, expiry); err != nil {
				return err
			}
			return a.result(map[string]any{"name": args[0], "added": qty}, "Added %d of %s", qty, args[0])
		}),
	}
	addCmd.Flags().String("expiry", "", "Expiry date")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "issue <name> <quantity>",
		Short: "Dispense stock",
		Args:  cobra.ExactArgs(2),
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			if err := a.store.IssueMedicine(args[0], qty); err != nil {
				return err
			}
			return a.result(map[string]any{"name": args[0], "issued": qty}, "Issued %d of %s", qty, args[0])
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all medicines",
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			return a.medicineTable(a.store.ListMedicines())
		}),
	})

	lowCmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List medicines below a stock threshold",
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			threshold := a.cfg.LowStockThreshold
			if cmd.Flags().Changed("threshold") {
				threshold, _ = cmd.Flags().GetInt("threshold")
			}
			return a.medicineTable(a.store.LowStock(threshold))
		}),
	}
	lowCmd.Flags().Int("threshold", 0, "Stock level to compare against (defaults to LOW_STOCK_THRESHOLD)")
	cmd.AddCommand(lowCmd)

	return cmd
}

func (a *app) medicineTable(meds []medication.Medicine) error {
	return a.table(meds, "NAME\tQUANTITY\tEXPIRY", func(w io.Writer) {
		for _, m := range meds {
			fmt.Fprintf(w, "%s\t%d\t%s\n", m.Name, m.Quantity, m.Expiry)
		}
	})
}
