package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DavidJ001/patient-request-form/internal/booking"
)

// referralUploader stores a referral file and returns its handle.
type referralUploader interface {
	UploadsEnabled() bool
	UploadReferral(ctx context.Context, name string, body io.Reader) (booking.Document, error)
}

// wizard walks the visible form sections in order and applies each answer
// to the form. Current values are offered as defaults so a retry after a
// failed send does not mean retyping everything.
type wizard struct {
	prompts  Prompter
	form     *booking.Form
	out      io.Writer
	now      func() time.Time
	uploader referralUploader
}

func (w *wizard) run(ctx context.Context) error {
	for _, section := range booking.Sections() {
		if !w.form.Visible(section) {
			continue
		}
		var err error
		switch section {
		case booking.SectionPersonal:
			err = w.askPersonal(ctx)
		case booking.SectionAppointment:
			err = w.askAppointment(ctx)
		case booking.SectionRelationship:
			err = w.askRelationship(ctx)
		case booking.SectionPatientDetails:
			err = w.askPatientDetails(ctx)
		case booking.SectionNotes:
			err = w.askNotes(ctx)
		case booking.SectionReferralUpload:
			err = w.askReferral(ctx)
		case booking.SectionConsent:
			err = w.askConsent(ctx)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *wizard) heading(title string) {
	fmt.Fprintf(w.out, "\n== %s ==\n", title)
}

func (w *wizard) askPersonal(ctx context.Context) error {
	w.heading("Personal Information")
	cur := w.form.Snapshot()

	name, err := w.prompts.Input(ctx, "Full Name *", cur.FullName, nil)
	if err != nil {
		return err
	}
	dob, err := w.askDate(ctx, "Date of Birth (YYYY-MM-DD)", cur.DateOfBirth, func(d booking.Date) error {
		return booking.CheckDateOfBirth(d, w.now())
	})
	if err != nil {
		return err
	}
	if err := w.form.PickDateOfBirth(dob, w.now()); err != nil {
		return err
	}

	genders := booking.Genders()
	options := []string{"Prefer not to say"}
	def := 0
	for i, g := range genders {
		options = append(options, titleCase(string(g)))
		if g == cur.Gender {
			def = i + 1
		}
	}
	idx, err := w.prompts.Select(ctx, "Gender", options, def)
	if err != nil {
		return err
	}
	var gender booking.Gender
	if idx > 0 {
		gender = genders[idx-1]
	}

	phone, err := w.prompts.Input(ctx, "Phone Number *", cur.PhoneNumber, nil)
	if err != nil {
		return err
	}
	email, err := w.prompts.Input(ctx, "Email Address *", cur.EmailAddress, nil)
	if err != nil {
		return err
	}

	w.form.Update(booking.Patch{
		FullName:     booking.Ptr(strings.TrimSpace(name)),
		Gender:       &gender,
		PhoneNumber:  booking.Ptr(strings.TrimSpace(phone)),
		EmailAddress: booking.Ptr(strings.TrimSpace(email)),
	})
	return nil
}

// Leading select entries that leave the field empty.
const (
	selectService = "Select a service"
	selectTime    = "Select a time"
)

func (w *wizard) askAppointment(ctx context.Context) error {
	w.heading("Appointment Details")
	cur := w.form.Snapshot()

	services := append([]booking.Service{""}, booking.Services()...)
	labels := make([]string, len(services))
	def := 0
	for i, s := range services {
		labels[i] = s.Label()
		if i > 0 && s == cur.Service {
			def = i
		}
	}
	labels[0] = selectService
	idx, err := w.prompts.Select(ctx, "Service Required *", labels, def)
	if err != nil {
		return err
	}

	date, err := w.askDate(ctx, "Preferred Date (YYYY-MM-DD) *", cur.PreferredDate, func(d booking.Date) error {
		return booking.CheckPreferredDate(d, w.now())
	})
	if err != nil {
		return err
	}
	if err := w.form.PickPreferredDate(date, w.now()); err != nil {
		return err
	}

	slots := append([]booking.TimeSlot{""}, booking.TimeSlots()...)
	slotLabels := make([]string, len(slots))
	slotDef := 0
	for i, s := range slots {
		slotLabels[i] = string(s)
		if i > 0 && s == cur.PreferredTime {
			slotDef = i
		}
	}
	slotLabels[0] = selectTime
	slotIdx, err := w.prompts.Select(ctx, "Preferred Time *", slotLabels, slotDef)
	if err != nil {
		return err
	}

	doctor, err := w.prompts.Input(ctx, "Preferred Doctor (optional)", cur.PreferredDoctor, nil)
	if err != nil {
		return err
	}

	w.form.Update(booking.Patch{
		Service:         &services[idx],
		PreferredTime:   &slots[slotIdx],
		PreferredDoctor: booking.Ptr(strings.TrimSpace(doctor)),
	})
	return nil
}

func (w *wizard) askRelationship(ctx context.Context) error {
	w.heading("Patient Information")
	self, err := w.prompts.Confirm(ctx, "Is this appointment for yourself?", w.form.Snapshot().IsForSelf)
	if err != nil {
		return err
	}
	w.form.Update(booking.Patch{IsForSelf: &self})
	return nil
}

func (w *wizard) askPatientDetails(ctx context.Context) error {
	cur := w.form.Snapshot()
	name, err := w.prompts.Input(ctx, "Patient Name *", cur.PatientName, nil)
	if err != nil {
		return err
	}
	age, err := w.prompts.Input(ctx, "Patient Age", cur.PatientAge, nil)
	if err != nil {
		return err
	}
	rel, err := w.prompts.Input(ctx, "Your Relationship to Patient *", cur.RelationshipToPatient, nil)
	if err != nil {
		return err
	}
	w.form.Update(booking.Patch{
		PatientName:           booking.Ptr(strings.TrimSpace(name)),
		PatientAge:            booking.Ptr(strings.TrimSpace(age)),
		RelationshipToPatient: booking.Ptr(strings.TrimSpace(rel)),
	})
	return nil
}

func (w *wizard) askNotes(ctx context.Context) error {
	w.heading("Additional Information")
	cur := w.form.Snapshot()
	reason, err := w.prompts.Multiline(ctx, "Reason for Visit", cur.ReasonForVisit)
	if err != nil {
		return err
	}
	has, err := w.prompts.Confirm(ctx, "Do you have a referral?", cur.HasReferral)
	if err != nil {
		return err
	}
	w.form.Update(booking.Patch{
		ReasonForVisit:        booking.Ptr(strings.TrimSpace(reason)),
		HasReferral:           &has,
		ClearReferralDocument: !has,
	})
	return nil
}

func (w *wizard) askReferral(ctx context.Context) error {
	var def string
	if doc := w.form.Snapshot().ReferralDocument; doc != nil {
		def = doc.Name
	}
	path, err := w.prompts.Input(ctx, "Referral document path (PDF, DOC, DOCX, JPG, PNG; max 5MB)", def, func(s string) error {
		if def != "" && strings.TrimSpace(s) == def {
			return nil
		}
		return checkReferralFile(s)
	})
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		w.form.Update(booking.Patch{ClearReferralDocument: true})
		return nil
	case path == def:
		return nil
	}

	doc, err := w.referralDocument(ctx, path)
	if err != nil {
		return err
	}
	return w.form.AttachReferral(doc)
}

func (w *wizard) referralDocument(ctx context.Context, path string) (booking.Document, error) {
	name := filepath.Base(path)
	if w.uploader != nil && w.uploader.UploadsEnabled() {
		f, err := os.Open(path)
		if err != nil {
			return booking.Document{}, err
		}
		defer f.Close()
		doc, err := w.uploader.UploadReferral(ctx, name, f)
		if err != nil {
			return booking.Document{}, err
		}
		fmt.Fprintf(w.out, "Uploaded %s\n", doc.Name)
		return doc, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return booking.Document{}, err
	}
	return booking.Document{Name: name, Size: info.Size(), ContentType: booking.ReferralContentType(name)}, nil
}

func (w *wizard) askConsent(ctx context.Context) error {
	agree, err := w.prompts.Confirm(ctx, "I agree to the terms and conditions and privacy policy *", w.form.Snapshot().AgreeToTerms)
	if err != nil {
		return err
	}
	w.form.Update(booking.Patch{AgreeToTerms: &agree})
	return nil
}

// askDate prompts until the answer parses and passes check. Blank leaves the
// date unset.
func (w *wizard) askDate(ctx context.Context, message string, cur booking.Date, check func(booking.Date) error) (booking.Date, error) {
	var def string
	if !cur.IsZero() {
		def = cur.String()
	}
	raw, err := w.prompts.Input(ctx, message, def, func(s string) error {
		_, err := parseDateAnswer(s, check)
		return err
	})
	if err != nil {
		return booking.Date{}, err
	}
	return parseDateAnswer(raw, check)
}

func parseDateAnswer(s string, check func(booking.Date) error) (booking.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return booking.Date{}, nil
	}
	d, err := booking.ParseDate(s)
	if err != nil {
		return booking.Date{}, err
	}
	if err := check(d); err != nil {
		return booking.Date{}, err
	}
	return d, nil
}

func checkReferralFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := booking.CheckReferralName(path); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > booking.MaxReferralSize {
		return fmt.Errorf("file size must be less than 5MB")
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
