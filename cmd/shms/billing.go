package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shms/shms/internal/domain/billing"
)

// billSummary is the JSON shape for a bill with its computed amounts.
type billSummary struct {
	billing.Bill
	Base  float64 `json:"base"`
	Total float64 `json:"total"`
}

func summarize(b billing.Bill) billSummary {
	return billSummary{Bill: b, Base: b.Base(), Total: b.Total()}
}

func billCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bill",
		Short: "Create and inspect patient bills",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open a bill for a patient",
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			patientID, _ := cmd.Flags().GetInt("patient")
			insured, _ := cmd.Flags().GetBool("insured")
			coverage, _ := cmd.Flags().GetFloat64("coverage")
			id, err := a.store.CreateBill(patientID, insured, coverage)
			if err != nil {
				return err
			}
			b, _ := a.store.GetBill(id)
			return a.result(summarize(b), "Bill created with ID %d", id)
		}),
	}
	createCmd.Flags().Int("patient", 0, "Patient ID")
	createCmd.Flags().Bool("insured", false, "Apply insurance coverage")
	createCmd.Flags().Float64("coverage", 0, "Coverage percent, 0-100")
	_ = createCmd.MarkFlagRequired("patient")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "add-item <bill-id> <description> <amount>",
		Short: "Append a charge to a bill",
		Args:  cobra.ExactArgs(3),
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			amount, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[2])
			}
			if err := a.store.AddBillItem(id, args[1], amount); err != nil {
				return err
			}
			b, _ := a.store.GetBill(id)
			return a.result(summarize(b), "Bill %d total: %.2f", id, b.Total())
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a bill with its items and totals",
		Args:  cobra.ExactArgs(1),
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, ok := a.store.GetBill(id)
			if !ok {
				return fmt.Errorf("bill %d not found", id)
			}
			if a.json {
				return a.printJSON(summarize(b))
			}
			fmt.Fprintf(a.out, "Bill %d for patient %d (%s)\n", b.ID, b.PatientID, b.CreatedAt)
			for _, it := range b.Items {
				fmt.Fprintf(a.out, "  %-30s %10.2f\n", it.Description, it.Amount)
			}
			fmt.Fprintf(a.out, "  %-30s %10.2f\n", "Base", b.Base())
			if b.Insured {
				fmt.Fprintf(a.out, "  %-30s %9.0f%%\n", "Coverage", b.CoveragePercent)
			}
			_, err = fmt.Fprintf(a.out, "  %-30s %10.2f\n", "Total", b.Total())
			return err
		}),
	})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List bills, optionally for one patient",
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			var bills []billing.Bill
			if patientID, _ := cmd.Flags().GetInt("patient"); patientID > 0 {
				bills = a.store.GetBillsForPatient(patientID)
			} else {
				bills = a.store.ListBills()
			}
			views := make([]billSummary, len(bills))
			for i, b := range bills {
				views[i] = summarize(b)
			}
			return a.table(views, "ID\tPATIENT\tITEMS\tBASE\tTOTAL\tCREATED", func(w io.Writer) {
				for _, v := range views {
					fmt.Fprintf(w, "%d\t%d\t%d\t%.2f\t%.2f\t%s\n", v.ID, v.PatientID, len(v.Items), v.Base, v.Total, v.CreatedAt)
				}
			})
		}),
	}
	listCmd.Flags().Int("patient", 0, "Only this patient's bills")
	cmd.AddCommand(listCmd)

	return cmd
}
