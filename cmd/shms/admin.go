package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shms/shms/internal/domain/admin"
	"github.com/shms/shms/internal/domain/department"
)

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Record department services on a patient",
	}

	names := make([]string, 0, len(department.All()))
	for _, svc := range department.All() {
		names = append(names, string(svc))
	}

	performCmd := &cobra.Command{
		Use:   "perform <" + strings.Join(names, "|") + "> <patient-id>",
		Short: "Perform a service and note it in the patient's history",
		Args:  cobra.ExactArgs(2),
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			svc, err := department.Parse(args[0])
			if err != nil {
				return err
			}
			patientID, err := parseID(args[1])
			if err != nil {
				return err
			}
			note, _ := cmd.Flags().GetString("note")
			entry, err := a.store.PerformService(svc, patientID, note)
			if err != nil {
				return err
			}
			return a.result(map[string]any{"service": svc.Name(), "patient_id": patientID, "entry": entry}, "%s", entry)
		}),
	}
	performCmd.Flags().String("note", "", "Free-text note, e.g. a diagnostic finding")
	cmd.AddCommand(performCmd)

	return cmd
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	addCmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a login account",
		Args:  cobra.ExactArgs(1),
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			password, _ := cmd.Flags().GetString("password")
			linked, _ := cmd.Flags().GetInt("linked-id")
			if !admin.ValidRole(role) {
				return fmt.Errorf("unknown role %q (want one of %s)", role, strings.Join(admin.Roles, ", "))
			}
			u := admin.User{Username: args[0], Role: role, Password: password, LinkedID: linked}
			if err := a.store.AddUser(u); err != nil {
				return err
			}
			return a.result(u, "User %s created with role %s", u.Username, u.Role)
		}),
	}
	addCmd.Flags().String("role", admin.RoleReceptionist, "Role: "+strings.Join(admin.Roles, ", "))
	addCmd.Flags().String("password", "", "Password")
	addCmd.Flags().Int("linked-id", 0, "Linked patient/doctor/staff ID")
	_ = addCmd.MarkFlagRequired("password")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "login <username> <password>",
		Short: "Check credentials and print the account's role",
		Args:  cobra.ExactArgs(2),
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			u, ok := a.store.Authenticate(args[0], args[1])
			if !ok {
				return errors.New("invalid username or password")
			}
			return a.result(u, "Logged in as %s (%s)", u.Username, u.Role)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List login accounts",
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			users := a.store.ListUsers()
			return a.table(users, "USERNAME\tROLE\tLINKED", func(w io.Writer) {
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%d\n", u.Username, u.Role, u.LinkedID)
				}
			})
		}),
	})

	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print hospital summary statistics",
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			st := a.store.Stats()
			if a.json {
				return a.printJSON(st)
			}
			w := a.out
			fmt.Fprintf(w, "Patients:      %d\n", st.Patients)
			fmt.Fprintf(w, "Doctors:       %d\n", st.Doctors)
			fmt.Fprintf(w, "Staff:         %d\n", st.Staff)
			fmt.Fprintf(w, "Appointments:  %d\n", st.Appointments)
			fmt.Fprintf(w, "Bills:         %d\n", st.Bills)
			fmt.Fprintf(w, "Revenue:       %.2f\n", st.Revenue)
			if st.BusiestDoctorID > 0 {
				fmt.Fprintf(w, "Busiest:       %s (%d bookings)\n", st.BusiestDoctorName, st.BusiestDoctorBookings)
			}
			return nil
		}),
	}
}
