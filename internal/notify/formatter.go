package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/DavidJ001/patient-request-form/internal/booking"
)

const (
	// DefaultSubjectPrefix heads every notification subject.
	DefaultSubjectPrefix = "New Appointment Request"
	// DefaultDateLayout matches the en-US short date ("6/1/2025").
	DefaultDateLayout = "1/2/2006"

	notSpecified = "Not specified"
	noPreference = "No preference"
)

// Message is a formatted booking notification. TextBody is canonical;
// HTMLBody mirrors its sections.
type Message struct {
	Subject  string
	TextBody string
	HTMLBody string
	ReplyTo  string
}

// Email addresses m to the given recipient.
func (m Message) Email(to string) EmailMessage {
	return EmailMessage{
		To:      to,
		ReplyTo: m.ReplyTo,
		Subject: m.Subject,
		Body:    m.TextBody,
		HTML:    m.HTMLBody,
	}
}

// Formatter turns a booking request into a notification. The zero value is
// usable and falls back to the defaults above.
type Formatter struct {
	SubjectPrefix string
	DateLayout    string
	// ClinicName appears in the HTML footer when set.
	ClinicName string
	// Location is the clinic's zone for dates sent as timestamps; nil means
	// booking.DefaultLocation.
	Location *time.Location
}

type field struct {
	label string
	value string
}

type section struct {
	title  string
	fields []field
}

// Format builds the notification for r. It is pure: the same request always
// yields byte-identical output.
func (f Formatter) Format(r booking.Request) Message {
	r = r.InLocation(f.Location)
	sections := f.sections(r)
	return Message{
		Subject:  f.subjectPrefix() + " - " + r.FullName,
		TextBody: renderText(sections),
		HTMLBody: f.renderHTML(sections),
		ReplyTo:  strings.TrimSpace(r.EmailAddress),
	}
}

func (f Formatter) subjectPrefix() string {
	if f.SubjectPrefix == "" {
		return DefaultSubjectPrefix
	}
	return f.SubjectPrefix
}

func (f Formatter) date(d booking.Date) string {
	if d.IsZero() {
		return notSpecified
	}
	layout := f.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	return d.Format(layout)
}

func (f Formatter) sections(r booking.Request) []section {
	personal := section{title: "Personal Information", fields: []field{
		{"Full Name", r.FullName},
		{"Date of Birth", f.date(r.DateOfBirth)},
		{"Gender", string(r.Gender)},
		{"Phone Number", r.PhoneNumber},
		{"Email Address", r.EmailAddress},
	}}

	appointment := section{title: "Appointment Details", fields: []field{
		{"Service", string(r.Service)},
		{"Preferred Date", f.date(r.PreferredDate)},
		{"Preferred Time", string(r.PreferredTime)},
		{"Preferred Doctor", orDefault(r.PreferredDoctor, noPreference)},
	}}

	additional := section{title: "Additional Information", fields: []field{
		{"Reason for Visit", orDefault(r.ReasonForVisit, notSpecified)},
		{"Has Referral", yesNo(r.HasReferral)},
	}}
	if doc, ok := r.Referral(); ok {
		additional.fields = append(additional.fields, field{"Referral Document", doc.Name})
	}

	out := []section{personal, appointment}
	switch b := r.Booking().(type) {
	case booking.SelfBooking:
		out[1].fields = append(out[1].fields, field{"Appointment for self", "Yes"})
	case booking.ProxyBooking:
		out = append(out, section{title: "Patient Information", fields: []field{
			{"Appointment for self", "No"},
			{"Patient Name", b.Patient.Name},
			{"Patient Age", b.Patient.Age},
			{"Relationship to Patient", b.Patient.Relationship},
		}})
	}
	return append(out, additional)
}

func renderText(sections []section) string {
	var b strings.Builder
	b.WriteString("APPOINTMENT BOOKING REQUEST\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(strings.ToUpper(s.title))
		b.WriteString(":\n")
		for _, fl := range s.fields {
			b.WriteString(fmt.Sprintf("%s: %s\n", fl.label, fl.value))
		}
	}
	return b.String()
}

// escapeHTML keeps every character the patient typed; markup shows as text.
func escapeHTML(s string) string {
	return html.EscapeString(s)
}

func (f Formatter) renderHTML(sections []section) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">` + "\n")
	b.WriteString(`<h2 style="color: #2563eb;">New Appointment Booking Request</h2>` + "\n")
	for _, s := range sections {
		b.WriteString(fmt.Sprintf(`<h3 style="color: #059669;">%s</h3>`+"\n", s.title))
		for _, fl := range s.fields {
			b.WriteString(fmt.Sprintf("<p><strong>%s:</strong> %s</p>\n", fl.label, escapeHTML(fl.value)))
		}
	}
	if f.ClinicName != "" {
		b.WriteString(`<hr style="margin: 20px 0;">` + "\n")
		b.WriteString(fmt.Sprintf(`<p style="color: #666; font-size: 12px;">This appointment request was submitted through the %s website.</p>`+"\n", escapeHTML(f.ClinicName)))
	}
	b.WriteString("</div>\n")
	return b.String()
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
