package booking

import "time"

// Request is everything the patient (or the person booking for them) enters
// on the appointment form.
type Request struct {
	// Personal information
	FullName     string `json:"fullName"`
	DateOfBirth  Date   `json:"dateOfBirth"`
	Gender       Gender `json:"gender"`
	PhoneNumber  string `json:"phoneNumber"`
	EmailAddress string `json:"emailAddress"`

	// Appointment details
	Service         Service  `json:"service"`
	PreferredDate   Date     `json:"preferredDate"`
	PreferredTime   TimeSlot `json:"preferredTime"`
	PreferredDoctor string   `json:"preferredDoctor"`

	// Patient information, only meaningful when IsForSelf is false
	IsForSelf             bool   `json:"isForSelf"`
	PatientName           string `json:"patientName"`
	PatientAge            string `json:"patientAge"`
	RelationshipToPatient string `json:"relationshipToPatient"`

	// Additional notes
	ReasonForVisit   string    `json:"reasonForVisit"`
	HasReferral      bool      `json:"hasReferral"`
	ReferralDocument *Document `json:"referralDocument"`

	AgreeToTerms bool `json:"agreeToTerms"`
}

// NewRequest returns the empty form a patient starts from.
func NewRequest() Request {
	return Request{IsForSelf: true}
}

// Clone returns a copy that shares nothing mutable with r.
func (r Request) Clone() Request {
	if r.ReferralDocument != nil {
		doc := *r.ReferralDocument
		r.ReferralDocument = &doc
	}
	return r
}

// InLocation returns r with timestamp-derived dates read on loc's calendar.
// A nil loc means DefaultLocation.
func (r Request) InLocation(loc *time.Location) Request {
	if loc == nil {
		loc = DefaultLocation()
	}
	r.DateOfBirth = r.DateOfBirth.In(loc)
	r.PreferredDate = r.PreferredDate.In(loc)
	return r
}

// Referral returns the attached document when the patient said they have a
// referral and actually attached one.
func (r Request) Referral() (Document, bool) {
	if !r.HasReferral || r.ReferralDocument == nil || r.ReferralDocument.Name == "" {
		return Document{}, false
	}
	return *r.ReferralDocument, true
}

// Document is an opaque handle to an uploaded referral file. The bytes live
// elsewhere; only the name ever reaches a notification.
type Document struct {
	Name        string `json:"name"`
	Key         string `json:"key,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// Patient identifies the person being seen when someone else books.
type Patient struct {
	Name         string
	Age          string
	Relationship string
}

// Booking is either a SelfBooking or a ProxyBooking.
type Booking interface {
	Details() Request
	booking()
}

// SelfBooking is an appointment requested by the patient themselves.
type SelfBooking struct {
	Request Request
}

// ProxyBooking is an appointment requested on behalf of Patient.
type ProxyBooking struct {
	Request Request
	Patient Patient
}

func (b SelfBooking) Details() Request  { return b.Request }
func (b ProxyBooking) Details() Request { return b.Request }
func (SelfBooking) booking()            {}
func (ProxyBooking) booking()           {}

// Booking classifies r without validating it.
func (r Request) Booking() Booking {
	if r.IsForSelf {
		return SelfBooking{Request: r}
	}
	return ProxyBooking{
		Request: r,
		Patient: Patient{
			Name:         r.PatientName,
			Age:          r.PatientAge,
			Relationship: r.RelationshipToPatient,
		},
	}
}

// Accept validates r and returns its classified form. A ProxyBooking returned
// here always has every Patient field filled in.
func Accept(r Request) (Booking, error) {
	if err := Validate(r).Err(); err != nil {
		return nil, err
	}
	return r.Booking(), nil
}
