package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shms/shms/internal/domain/scheduling"
)

func appointmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointment",
		Short: "Book, cancel and list appointments",
	}

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Book a patient with a doctor",
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			patientID, _ := cmd.Flags().GetInt("patient")
			doctorID, _ := cmd.Flags().GetInt("doctor")
			dt, _ := cmd.Flags().GetString("datetime")
			typ, _ := cmd.Flags().GetString("type")
			reason, _ := cmd.Flags().GetString("reason")
			id, err := a.store.ScheduleAppointment(patientID, doctorID, dt, typ, reason)
			if err != nil {
				return err
			}
			appt, _ := a.store.GetAppointment(id)
			return a.result(appt, "Appointment scheduled with ID %d", id)
		}),
	}
	scheduleCmd.Flags().Int("patient", 0, "Patient ID")
	scheduleCmd.Flags().Int("doctor", 0, "Doctor ID")
	scheduleCmd.Flags().String("datetime", "", "Date-time as YYYY-MM-DD HH:MM")
	scheduleCmd.Flags().String("type", "Consultation", "Appointment type")
	scheduleCmd.Flags().String("reason", "", "Reason for visit")
	_ = scheduleCmd.MarkFlagRequired("patient")
	_ = scheduleCmd.MarkFlagRequired("doctor")
	_ = scheduleCmd.MarkFlagRequired("datetime")
	cmd.AddCommand(scheduleCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an appointment and free the doctor's slot",
		Args:  cobra.ExactArgs(1),
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !a.store.CancelAppointment(id) {
				return fmt.Errorf("appointment %d not found", id)
			}
			return a.result(map[string]int{"cancelled": id}, "Appointment %d cancelled", id)
		}),
	})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments, optionally for one patient or doctor",
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			patientID, _ := cmd.Flags().GetInt("patient")
			doctorID, _ := cmd.Flags().GetInt("doctor")
			var appts []scheduling.Appointment
			switch {
			case patientID > 0:
				appts = a.store.GetAppointmentsForPatient(patientID)
			case doctorID > 0:
				appts = a.store.GetAppointmentsForDoctor(doctorID)
			default:
				appts = a.store.ListAppointments()
			}
			return a.table(appts, "ID\tPATIENT\tDOCTOR\tDATETIME\tTYPE\tREASON", func(w io.Writer) {
				for _, ap := range appts {
					fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\t%s\n", ap.ID, ap.PatientID, ap.DoctorID, ap.DateTime, ap.Type, ap.Reason)
				}
			})
		}),
	}
	listCmd.Flags().Int("patient", 0, "Only this patient's appointments")
	listCmd.Flags().Int("doctor", 0, "Only this doctor's appointments")
	cmd.AddCommand(listCmd)

	return cmd
}
