package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shms/shms/internal/domain/identity"
)

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func personFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().Int("age", 0, "Age in years")
	cmd.Flags().String("gender", "", "Gender")
	cmd.Flags().String("contact", "", "Contact number")
	_ = cmd.MarkFlagRequired("name")
}

func personFrom(cmd *cobra.Command) identity.Person {
	name, _ := cmd.Flags().GetString("name")
	age, _ := cmd.Flags().GetInt("age")
	gender, _ := cmd.Flags().GetString("gender")
	contact, _ := cmd.Flags().GetString("contact")
	return identity.Person{Name: name, Age: age, Gender: gender, Contact: contact}
}

// personView is the JSON shape for a record looked up by person id.
type personView struct {
	Kind    identity.Kind   `json:"kind"`
	ID      int             `json:"id"`
	Summary string          `json:"summary"`
	Record  identity.Record `json:"record"`
}

func (a *app) describe(r identity.Record) error {
	return a.result(personView{Kind: r.Kind(), ID: r.PersonID(), Summary: r.Describe(), Record: r}, "%s", r.Describe())
}

func personCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Look up anyone by person id",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show the patient, doctor or staff member holding an id",
		Args:  cobra.ExactArgs(1),
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			r, ok := a.store.FindPerson(id)
			if !ok {
				return fmt.Errorf("person %d not found", id)
			}
			return a.describe(r)
		}),
	})
	return cmd
}

func patientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Register and look up patients",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a patient",
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			insured, _ := cmd.Flags().GetBool("insured")
			provider, _ := cmd.Flags().GetString("provider")
			nationalID, _ := cmd.Flags().GetString("national-id")
			id := a.store.AddPatient(identity.Patient{
				Person:            personFrom(cmd),
				Insured:           insured,
				InsuranceProvider: provider,
				NationalID:        nationalID,
			})
			p, _ := a.store.FindPatient(id)
			return a.result(p, "Patient registered with ID %d", id)
		}),
	}
	personFlags(addCmd)
	addCmd.Flags().Bool("insured", false, "Patient has insurance")
	addCmd.Flags().String("provider", "", "Insurance provider")
	addCmd.Flags().String("national-id", "", "National identity number")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one patient",
		Args:  cobra.ExactArgs(1),
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, ok := a.store.FindPatient(id)
			if !ok {
				return fmt.Errorf("patient %d not found", id)
			}
			return a.describe(p)
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all patients",
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			return a.patientTable(a.store.ListPatients())
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search <name>",
		Short: "Find patients whose name contains the text (case-sensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			return a.patientTable(a.store.SearchPatientsByName(args[0]))
		}),
	})

	historyCmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Show a patient's history, or append to it with --add",
		Args:  cobra.ExactArgs(1),
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if entry, _ := cmd.Flags().GetString("add"); entry != "" {
				if err := a.store.AddPatientHistory(id, entry); err != nil {
					return err
				}
				if err := a.store.SaveAll(); err != nil {
					return err
				}
			}
			p, ok := a.store.FindPatient(id)
			if !ok {
				return fmt.Errorf("patient %d not found", id)
			}
			if a.json {
				return a.printJSON(p.History)
			}
			if len(p.History) == 0 {
				_, err := fmt.Fprintln(a.out, "No history.")
				return err
			}
			for i, h := range p.History {
				fmt.Fprintf(a.out, "%d. %s\n", i+1, h)
			}
			return nil
		}),
	}
	historyCmd.Flags().String("add", "", "Entry to append")
	cmd.AddCommand(historyCmd)

	insureCmd := &cobra.Command{
		Use:   "insure <id>",
		Short: "Set or clear a patient's insurance",
		Args:  cobra.ExactArgs(1),
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			provider, _ := cmd.Flags().GetString("provider")
			remove, _ := cmd.Flags().GetBool("remove")
			if remove {
				provider = ""
			}
			if err := a.store.SetPatientInsurance(id, !remove, provider); err != nil {
				return err
			}
			p, _ := a.store.FindPatient(id)
			return a.describe(p)
		}),
	}
	insureCmd.Flags().String("provider", "", "Insurance provider")
	insureCmd.Flags().Bool("remove", false, "Clear insurance")
	cmd.AddCommand(insureCmd)

	return cmd
}

func (a *app) patientTable(patients []identity.Patient) error {
	return a.table(patients, "ID\tNAME\tAGE\tGENDER\tCONTACT\tINSURED\tPROVIDER", func(w io.Writer) {
		for _, p := range patients {
			insured := "No"
			if p.Insured {
				insured = "Yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Age, p.Gender, p.Contact, insured, p.InsuranceProvider)
		}
	})
}

func doctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Register doctors and check availability",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a doctor",
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			spec, _ := cmd.Flags().GetString("specialization")
			fee, _ := cmd.Flags().GetFloat64("fee")
			id := a.store.AddDoctor(identity.Doctor{
				Person:          personFrom(cmd),
				Specialization:  spec,
				ConsultationFee: fee,
			})
			d, _ := a.store.FindDoctor(id)
			return a.result(d, "Doctor registered with ID %d", id)
		}),
	}
	personFlags(addCmd)
	addCmd.Flags().String("specialization", "", "Specialization")
	addCmd.Flags().Float64("fee", 0, "Consultation fee")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one doctor",
		Args:  cobra.ExactArgs(1),
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, ok := a.store.FindDoctor(id)
			if !ok {
				return fmt.Errorf("doctor %d not found", id)
			}
			if a.json {
				return a.printJSON(d)
			}
			fmt.Fprintln(a.out, d.Describe())
			for _, s := range d.BookedSlots {
				fmt.Fprintf(a.out, "  booked: %s\n", s)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all doctors",
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			return a.doctorTable(a.store.ListDoctors())
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search <specialization>",
		Short: "Find doctors whose specialization contains the text (case-sensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			return a.doctorTable(a.store.SearchDoctorsBySpecialization(args[0]))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "available <id> <YYYY-MM-DD HH:MM>",
		Short: "Check whether a doctor is free at a date-time",
		Args:  cobra.MinimumNArgs(2),
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, ok := a.store.FindDoctor(id); !ok {
				return fmt.Errorf("doctor %d not found", id)
			}
			dt := strings.Join(args[1:], " ")
			free := a.store.IsDoctorAvailable(id, dt)
			verdict := "available"
			if !free {
				verdict = "booked"
			}
			return a.result(map[string]any{"doctor_id": id, "datetime": dt, "available": free},
				"Doctor %d is %s at %s", id, verdict, dt)
		}),
	})

	return cmd
}

func (a *app) doctorTable(doctors []identity.Doctor) error {
	return a.table(doctors, "ID\tNAME\tSPECIALIZATION\tFEE\tBOOKED", func(w io.Writer) {
		for _, d := range doctors {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%d\n", d.ID, d.Name, d.Specialization, d.ConsultationFee, len(d.BookedSlots))
		}
	})
}

func staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Register and list staff",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a staff member",
		RunE: run(true, func(a *app, cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			username, _ := cmd.Flags().GetString("username")
			id := a.store.AddStaff(identity.Staff{Person: personFrom(cmd), Role: role, Username: username})
			st, _ := a.store.FindStaff(id)
			return a.result(st, "Staff registered with ID %d", id)
		}),
	}
	personFlags(addCmd)
	addCmd.Flags().String("role", "", "Job role")
	addCmd.Flags().String("username", "", "Linked login username")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all staff",
		RunE: run(false, func(a *app, cmd *cobra.Command, args []string) error {
			staff := a.store.ListStaff()
			return a.table(staff, "ID\tNAME\tROLE\tUSERNAME", func(w io.Writer) {
				for _, st := range staff {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", st.ID, st.Name, st.Role, st.Username)
				}
			})
		}),
	})

	return cmd
}
