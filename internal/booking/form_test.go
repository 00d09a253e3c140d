package booking

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewForm_Defaults(t *testing.T) {
	f := NewForm()
	got := f.Snapshot()

	if diff := cmp.Diff(NewRequest(), got); diff != "" {
		t.Fatalf("unexpected defaults (-want +got):\n%s", diff)
	}
	assert.True(t, got.IsForSelf)
	assert.False(t, got.HasReferral)
	assert.False(t, got.AgreeToTerms)
	assert.Nil(t, got.ReferralDocument)
}

func TestForm_UpdateMergesOnlySetFields(t *testing.T) {
	f := NewForm()
	f.Update(Patch{FullName: Ptr("Jane Doe"), PhoneNumber: Ptr("555-0100")})
	f.Update(Patch{EmailAddress: Ptr("jane@x.com")})

	want := NewRequest()
	want.FullName = "Jane Doe"
	want.PhoneNumber = "555-0100"
	want.EmailAddress = "jane@x.com"

	if diff := cmp.Diff(want, f.Snapshot()); diff != "" {
		t.Fatalf("unexpected state (-want +got):\n%s", diff)
	}

	// Explicit empty value clears.
	f.Update(Patch{PhoneNumber: Ptr("")})
	assert.Equal(t, "", f.Snapshot().PhoneNumber)
	assert.Equal(t, "Jane Doe", f.Snapshot().FullName)
}

func TestForm_SnapshotIsIsolated(t *testing.T) {
	f := NewForm()
	f.Update(Patch{HasReferral: Ptr(true), ReferralDocument: &Document{Name: "a.pdf"}})

	snap := f.Snapshot()
	snap.ReferralDocument.Name = "mutated.pdf"
	snap.FullName = "mutated"

	again := f.Snapshot()
	assert.Equal(t, "a.pdf", again.ReferralDocument.Name)
	assert.Equal(t, "", again.FullName)
}

func TestForm_ReferralDocumentClear(t *testing.T) {
	f := NewForm()
	require.NoError(t, f.AttachReferral(Document{Name: "scan.PNG"}))
	assert.Equal(t, "scan.PNG", f.Snapshot().ReferralDocument.Name)

	f.Update(Patch{ClearReferralDocument: true})
	assert.Nil(t, f.Snapshot().ReferralDocument)

	err := f.AttachReferral(Document{Name: "virus.exe"})
	assert.ErrorIs(t, err, ErrUnsupportedReferralType)
	assert.Nil(t, f.Snapshot().ReferralDocument)
}

func TestForm_VisibilityFollowsFlags(t *testing.T) {
	f := NewForm()
	assert.False(t, f.Visible(SectionPatientDetails))
	assert.False(t, f.Visible(SectionReferralUpload))
	assert.True(t, f.Visible(SectionConsent))

	f.Update(Patch{IsForSelf: Ptr(false)})
	assert.True(t, f.Visible(SectionPatientDetails))

	f.Update(Patch{HasReferral: Ptr(true)})
	assert.Equal(t, Sections(), f.VisibleSections())
}

func TestForm_OnChangeReportsSectionFlips(t *testing.T) {
	f := NewForm()
	var changes []Change
	unsubscribe := f.OnChange(func(c Change) { changes = append(changes, c) })

	f.Update(Patch{IsForSelf: Ptr(false)})
	f.Update(Patch{FullName: Ptr("Jane")})
	f.Update(Patch{IsForSelf: Ptr(true), HasReferral: Ptr(true)})

	require.Len(t, changes, 3)
	assert.Equal(t, []Section{SectionPatientDetails}, changes[0].Shown)
	assert.Empty(t, changes[0].Hidden)
	assert.Empty(t, changes[1].Shown)
	assert.Empty(t, changes[1].Hidden)
	assert.Equal(t, "", changes[1].Before.FullName)
	assert.Equal(t, "Jane", changes[1].After.FullName)
	assert.Equal(t, []Section{SectionReferralUpload}, changes[2].Shown)
	assert.Equal(t, []Section{SectionPatientDetails}, changes[2].Hidden)

	unsubscribe()
	f.Reset()
	assert.Len(t, changes, 3)
}

func TestForm_ListenerMayReadForm(t *testing.T) {
	f := NewForm()
	var seen string
	f.OnChange(func(Change) { seen = f.Snapshot().FullName })

	f.Update(Patch{FullName: Ptr("Jane")})
	assert.Equal(t, "Jane", seen)
}

func TestForm_Reset(t *testing.T) {
	f := NewForm()
	f.Update(Patch{FullName: Ptr("Jane"), IsForSelf: Ptr(false), AgreeToTerms: Ptr(true)})
	f.Reset()

	if diff := cmp.Diff(NewRequest(), f.Snapshot()); diff != "" {
		t.Fatalf("reset did not restore defaults (-want +got):\n%s", diff)
	}
}

func TestForm_CustomVisibility(t *testing.T) {
	hideConsent := EvaluatorFunc(func(s Section, r Request) bool {
		return s != SectionConsent
	})
	f := NewForm(WithVisibility(hideConsent))
	assert.False(t, f.Visible(SectionConsent))
	assert.True(t, f.Visible(SectionPatientDetails))
}

func TestForm_ConcurrentUpdatesAreAtomic(t *testing.T) {
	f := NewForm()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			f.Update(Patch{FullName: Ptr("A"), PhoneNumber: Ptr("A")})
		}()
		go func() {
			defer wg.Done()
			f.Update(Patch{FullName: Ptr("B"), PhoneNumber: Ptr("B")})
		}()
	}
	wg.Wait()

	snap := f.Snapshot()
	assert.Equal(t, snap.FullName, snap.PhoneNumber, "partial update observed")
}

func TestForm_Pickers(t *testing.T) {
	now := time.Date(2026, time.October, 16, 15, 0, 0, 0, time.UTC)
	f := NewForm()

	assert.ErrorIs(t, f.PickDateOfBirth(NewDate(2026, time.October, 17), now), ErrDateOfBirthInFuture)
	assert.ErrorIs(t, f.PickDateOfBirth(NewDate(1899, time.December, 31), now), ErrDateOfBirthTooEarly)
	assert.True(t, f.Snapshot().DateOfBirth.IsZero())

	require.NoError(t, f.PickDateOfBirth(NewDate(1900, time.January, 1), now))
	require.NoError(t, f.PickDateOfBirth(NewDate(2026, time.October, 16), now))
	assert.Equal(t, "2026-10-16", f.Snapshot().DateOfBirth.String())

	assert.ErrorIs(t, f.PickPreferredDate(NewDate(2026, time.October, 15), now), ErrPreferredDateInPast)
	require.NoError(t, f.PickPreferredDate(NewDate(2026, time.October, 16), now))
	assert.Equal(t, "2026-10-16", f.Snapshot().PreferredDate.String())
}

func TestValidateDoesNotRecheckPickerRanges(t *testing.T) {
	r := scenarioA()
	r.PreferredDate = NewDate(2001, time.January, 1)
	r.DateOfBirth = NewDate(1850, time.January, 1)
	assert.Equal(t, Valid, Validate(r).Kind)
}
