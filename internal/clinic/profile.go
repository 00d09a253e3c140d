// Package clinic describes the clinic the booking form belongs to.
package clinic

import (
	"fmt"
	"html"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/DavidJ001/patient-request-form/internal/booking"
)

// MenuLink is an outbound link shown next to the form.
type MenuLink struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	URL         string `yaml:"url" json:"url"`
}

// Profile holds the clinic details used for routing and display.
type Profile struct {
	Name string `yaml:"name" json:"name"`
	// AppointmentsInbox receives every booking notification.
	AppointmentsInbox string     `yaml:"appointments_inbox" json:"appointments_inbox"`
	Website           string     `yaml:"website" json:"website"`
	PhoneNote         string     `yaml:"phone_note" json:"phone_note"`
	Hours             string     `yaml:"hours" json:"hours"`
	Tagline           string     `yaml:"tagline" json:"tagline"`
	// Timezone is the IANA zone whose calendar booking dates are read on.
	Timezone string     `yaml:"timezone" json:"timezone"`
	Menu     []MenuLink `yaml:"menu" json:"menu"`
}

// DefaultProfile is used when no profile file is configured.
func DefaultProfile() Profile {
	return Profile{
		Name:              "Premier Family Clinics",
		AppointmentsInbox: "appointments@premierfamilyclinics.co.ke",
		Website:           "https://premierfamilyclinics.co.ke",
		PhoneNote:         "Call us for appointments",
		Hours:             "Mon-Fri: 8AM-6PM",
		Tagline:           "Professional healthcare services",
		Timezone:          booking.DefaultTimeZone,
		Menu: []MenuLink{
			{Title: "Our Services", Description: "Comprehensive healthcare services for the whole family", URL: "https://premierfamilyclinics.co.ke/services"},
			{Title: "About Us", Description: "Learn more about our clinic and medical team", URL: "https://premierfamilyclinics.co.ke/about"},
			{Title: "Contact Us", Description: "Get in touch with our clinic", URL: "https://premierfamilyclinics.co.ke/contact"},
			{Title: "Health Resources", Description: "Educational materials and health tips", URL: "https://premierfamilyclinics.co.ke/resources"},
		},
	}
}

// LoadProfile reads a YAML profile. Fields left out of the file keep their
// DefaultProfile values; an empty path returns the defaults.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()
	path = strings.TrimSpace(path)
	if path == "" {
		return profile, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("clinic: read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("clinic: parse profile %s: %w", path, err)
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile.plainText(), nil
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// stripMarkup drops any tags from operator-supplied display text.
func stripMarkup(s string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(textPolicy.Sanitize(s))
}

func (p Profile) plainText() Profile {
	p.Name = stripMarkup(p.Name)
	p.PhoneNote = stripMarkup(p.PhoneNote)
	p.Hours = stripMarkup(p.Hours)
	p.Tagline = stripMarkup(p.Tagline)
	menu := make([]MenuLink, len(p.Menu))
	for i, link := range p.Menu {
		link.Title = stripMarkup(link.Title)
		link.Description = stripMarkup(link.Description)
		menu[i] = link
	}
	p.Menu = menu
	return p
}

// Location returns the profile's zone, or booking.DefaultLocation when the
// zone is unset or unknown.
func (p Profile) Location() *time.Location {
	tz := strings.TrimSpace(p.Timezone)
	if tz == "" || tz == booking.DefaultTimeZone {
		return booking.DefaultLocation()
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return booking.DefaultLocation()
	}
	return loc
}

// Validate checks the fields the notification flow depends on.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("clinic: profile name is required")
	}
	if !strings.Contains(p.AppointmentsInbox, "@") {
		return fmt.Errorf("clinic: appointments_inbox %q is not an email address", p.AppointmentsInbox)
	}
	if tz := strings.TrimSpace(p.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("clinic: timezone %q: %w", tz, err)
		}
	}
	return nil
}

// ServiceOption is a selectable service with its display label.
type ServiceOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Catalog is what a form renderer needs to build its selects.
type Catalog struct {
	Services           []ServiceOption `json:"services"`
	TimeSlots          []string        `json:"time_slots"`
	Genders            []string        `json:"genders"`
	ReferralExtensions []string        `json:"referral_extensions"`
	MaxReferralBytes   int64           `json:"max_referral_bytes"`
}

// BookingCatalog lists the fixed booking options.
func BookingCatalog() Catalog {
	c := Catalog{
		ReferralExtensions: booking.ReferralExtensions(),
		MaxReferralBytes:   booking.MaxReferralSize,
	}
	for _, s := range booking.Services() {
		c.Services = append(c.Services, ServiceOption{Value: string(s), Label: s.Label()})
	}
	for _, slot := range booking.TimeSlots() {
		c.TimeSlots = append(c.TimeSlots, string(slot))
	}
	for _, g := range booking.Genders() {
		c.Genders = append(c.Genders, string(g))
	}
	return c
}
