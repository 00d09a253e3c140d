package booking

import (
	"sync"
	"time"
)

// Patch is a partial update. Nil fields are left untouched; a non-nil pointer
// to an empty value clears the field.
type Patch struct {
	FullName     *string
	DateOfBirth  *Date
	Gender       *Gender
	PhoneNumber  *string
	EmailAddress *string

	Service         *Service
	PreferredDate   *Date
	PreferredTime   *TimeSlot
	PreferredDoctor *string

	IsForSelf             *bool
	PatientName           *string
	PatientAge            *string
	RelationshipToPatient *string

	ReasonForVisit *string
	HasReferral    *bool
	// ReferralDocument replaces the attachment when non-nil.
	ReferralDocument *Document
	// ClearReferralDocument drops the attachment.
	ClearReferralDocument bool

	AgreeToTerms *bool
}

// Ptr is a small helper for building patches from literals.
func Ptr[T any](v T) *T { return &v }

// Apply returns r with p merged in. r is not modified.
func (p Patch) Apply(r Request) Request {
	out := r.Clone()
	set(&out.FullName, p.FullName)
	set(&out.DateOfBirth, p.DateOfBirth)
	set(&out.Gender, p.Gender)
	set(&out.PhoneNumber, p.PhoneNumber)
	set(&out.EmailAddress, p.EmailAddress)
	set(&out.Service, p.Service)
	set(&out.PreferredDate, p.PreferredDate)
	set(&out.PreferredTime, p.PreferredTime)
	set(&out.PreferredDoctor, p.PreferredDoctor)
	set(&out.IsForSelf, p.IsForSelf)
	set(&out.PatientName, p.PatientName)
	set(&out.PatientAge, p.PatientAge)
	set(&out.RelationshipToPatient, p.RelationshipToPatient)
	set(&out.ReasonForVisit, p.ReasonForVisit)
	set(&out.HasReferral, p.HasReferral)
	set(&out.AgreeToTerms, p.AgreeToTerms)
	if p.ClearReferralDocument {
		out.ReferralDocument = nil
	}
	if p.ReferralDocument != nil {
		doc := *p.ReferralDocument
		out.ReferralDocument = &doc
	}
	return out
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Change describes one state transition of a Form.
type Change struct {
	Before Request
	After  Request
	// Shown and Hidden list sections whose visibility flipped.
	Shown  []Section
	Hidden []Section
}

// Listener is notified after every state transition.
type Listener func(Change)

// Form holds the single in-progress request. It has one writer (the edit
// stream) and readers take snapshots.
type Form struct {
	mu         sync.Mutex
	state      Request
	visibility VisibilityEvaluator
	listeners  map[int]Listener
	order      []int
	nextID     int
}

// FormOption customises a Form.
type FormOption func(*Form)

// WithVisibility replaces DefaultVisibility.
func WithVisibility(eval VisibilityEvaluator) FormOption {
	return func(f *Form) {
		if eval != nil {
			f.visibility = eval
		}
	}
}

// NewForm returns a form holding NewRequest().
func NewForm(opts ...FormOption) *Form {
	f := &Form{
		state:      NewRequest(),
		visibility: DefaultVisibility,
		listeners:  map[int]Listener{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Snapshot returns a copy of the current request.
func (f *Form) Snapshot() Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Clone()
}

// Update merges p into the current request and swaps it in as a whole.
// No validation happens here.
func (f *Form) Update(p Patch) {
	f.replace(func(cur Request) Request { return p.Apply(cur) })
}

// Reset restores the empty request.
func (f *Form) Reset() {
	f.replace(func(Request) Request { return NewRequest() })
}

// PickDateOfBirth applies the birth date picker range before updating.
func (f *Form) PickDateOfBirth(d Date, now time.Time) error {
	if err := CheckDateOfBirth(d, now); err != nil {
		return err
	}
	f.Update(Patch{DateOfBirth: &d})
	return nil
}

// PickPreferredDate applies the appointment date picker range before updating.
func (f *Form) PickPreferredDate(d Date, now time.Time) error {
	if err := CheckPreferredDate(d, now); err != nil {
		return err
	}
	f.Update(Patch{PreferredDate: &d})
	return nil
}

// AttachReferral checks the file name and stores the document handle.
func (f *Form) AttachReferral(doc Document) error {
	if err := CheckReferralName(doc.Name); err != nil {
		return err
	}
	f.Update(Patch{ReferralDocument: &doc})
	return nil
}

// Visible reports whether section is shown for the current state.
func (f *Form) Visible(section Section) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visibility.Visible(section, f.state)
}

// VisibleSections lists the shown sections for the current state.
func (f *Form) VisibleSections() []Section {
	f.mu.Lock()
	defer f.mu.Unlock()
	return VisibleSections(f.visibility, f.state)
}

// OnChange registers fn and returns a function that removes it.
func (f *Form) OnChange(fn Listener) (unsubscribe func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	f.order = append(f.order, id)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
		for i, v := range f.order {
			if v == id {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
	}
}

func (f *Form) replace(next func(Request) Request) {
	f.mu.Lock()
	before := f.state
	after := next(before)
	f.state = after
	change := Change{Before: before.Clone(), After: after.Clone()}
	for _, s := range Sections() {
		was, is := f.visibility.Visible(s, before), f.visibility.Visible(s, after)
		switch {
		case !was && is:
			change.Shown = append(change.Shown, s)
		case was && !is:
			change.Hidden = append(change.Hidden, s)
		}
	}
	listeners := make([]Listener, 0, len(f.order))
	for _, id := range f.order {
		listeners = append(listeners, f.listeners[id])
	}
	f.mu.Unlock()

	// Listeners run outside the lock so they may read or update the form.
	for _, fn := range listeners {
		fn(change)
	}
}
