package booking

// Section is one block of the appointment form.
type Section string

const (
	SectionPersonal       Section = "personal-information"
	SectionAppointment    Section = "appointment-details"
	SectionRelationship   Section = "patient-information"
	SectionPatientDetails Section = "patient-details"
	SectionNotes          Section = "additional-notes"
	SectionReferralUpload Section = "referral-upload"
	SectionConsent        Section = "consent"
)

// Sections lists every section in the order the form shows them.
func Sections() []Section {
	return []Section{
		SectionPersonal,
		SectionAppointment,
		SectionRelationship,
		SectionPatientDetails,
		SectionNotes,
		SectionReferralUpload,
		SectionConsent,
	}
}

// VisibilityEvaluator decides whether a section is shown for the current
// request state.
type VisibilityEvaluator interface {
	Visible(section Section, r Request) bool
}

// EvaluatorFunc adapts a function into a VisibilityEvaluator.
type EvaluatorFunc func(section Section, r Request) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(section Section, r Request) bool {
	return fn(section, r)
}

// DefaultVisibility shows patient details only for proxy bookings and the
// referral upload only once the patient says they have a referral.
var DefaultVisibility VisibilityEvaluator = EvaluatorFunc(func(section Section, r Request) bool {
	switch section {
	case SectionPatientDetails:
		return !r.IsForSelf
	case SectionReferralUpload:
		return r.HasReferral
	default:
		return true
	}
})

// VisibleSections returns the sections eval shows for r, in form order.
func VisibleSections(eval VisibilityEvaluator, r Request) []Section {
	if eval == nil {
		eval = DefaultVisibility
	}
	out := make([]Section, 0, len(Sections()))
	for _, s := range Sections() {
		if eval.Visible(s, r) {
			out = append(out, s)
		}
	}
	return out
}
