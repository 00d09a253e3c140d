package booking

import (
	"fmt"
	"strings"
)

// Service is one of the clinic's bookable service lines.
type Service string

const (
	ServiceObstetricsGynecology Service = "obstetrics-gynecology"
	ServicePaediatricClinic     Service = "paediatric-clinic"
	ServiceAntenatalClinic      Service = "antenatal-clinic"
	ServiceAdolescentGynecology Service = "adolescent-gynecology"
)

var serviceLabels = map[Service]string{
	ServiceObstetricsGynecology: "Obstetrics & Gynecology",
	ServicePaediatricClinic:     "Paediatric Clinic Services",
	ServiceAntenatalClinic:      "Antenatal Clinic",
	ServiceAdolescentGynecology: "Adolescent Gynecology",
}

// Services returns the bookable services in display order.
func Services() []Service {
	return []Service{
		ServiceObstetricsGynecology,
		ServicePaediatricClinic,
		ServiceAntenatalClinic,
		ServiceAdolescentGynecology,
	}
}

// Label returns the human readable name, or the raw value for unknown services.
func (s Service) Label() string {
	if label, ok := serviceLabels[s]; ok {
		return label
	}
	return string(s)
}

// Known reports whether s is part of the catalog.
func (s Service) Known() bool {
	_, ok := serviceLabels[s]
	return ok
}

// ParseService accepts either the value or the label of a service.
func ParseService(raw string) (Service, error) {
	raw = strings.TrimSpace(raw)
	for _, s := range Services() {
		if strings.EqualFold(raw, string(s)) || strings.EqualFold(raw, s.Label()) {
			return s, nil
		}
	}
	return "", fmt.Errorf("booking: unknown service %q", raw)
}

// TimeSlot is a preferred appointment start time such as "9:30 AM".
type TimeSlot string

// TimeSlots returns the morning and afternoon slots offered by the clinic.
func TimeSlots() []TimeSlot {
	return []TimeSlot{
		"9:00 AM", "9:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
		"2:00 PM", "2:30 PM", "3:00 PM", "3:30 PM", "4:00 PM", "4:30 PM",
	}
}

// ParseTimeSlot matches raw against the offered slots, ignoring case and
// surrounding whitespace.
func ParseTimeSlot(raw string) (TimeSlot, error) {
	raw = strings.TrimSpace(raw)
	for _, slot := range TimeSlots() {
		if strings.EqualFold(raw, string(slot)) {
			return slot, nil
		}
	}
	return "", fmt.Errorf("booking: unknown time slot %q", raw)
}

// Gender is the patient's self-reported gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Genders returns the selectable genders.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}
