// Package department lists the hospital's service departments. Each entry is
// plain data; performing a service only records a dated note on the patient.
package department

import (
	"fmt"
	"strings"
)

// Service identifies a department.
type Service string

const (
	Pharmacy    Service = "pharmacy"
	Diagnostics Service = "diagnostics"
	Emergency   Service = "emergency"
	Surgery     Service = "surgery"
)

type entry struct {
	name   string
	action string
}

var table = map[Service]entry{
	Pharmacy:    {"Pharmacy", "Medicines dispensed"},
	Diagnostics: {"Diagnostics", "Diagnostic report"},
	Emergency:   {"Emergency", "Emergency admission"},
	Surgery:     {"Surgery", "Surgery scheduled"},
}

// All returns every service in display order.
func All() []Service {
	return []Service{Pharmacy, Diagnostics, Emergency, Surgery}
}

// Parse resolves a case-insensitive service name.
func Parse(s string) (Service, error) {
	svc := Service(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := table[svc]; !ok {
		return "", fmt.Errorf("unknown service %q", s)
	}
	return svc, nil
}

// Name is the department's display name.
func (s Service) Name() string { return table[s].name }

// Entry formats the history line recorded when the service is performed.
func (s Service) Entry(timestamp, note string) string {
	line := timestamp + " | " + s.Name() + ": " + table[s].action
	if note = strings.TrimSpace(note); note != "" {
		line += " - " + note
	}
	return line
}
