package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidJ001/patient-request-form/internal/booking"
	"github.com/DavidJ001/patient-request-form/internal/notify"
	"github.com/DavidJ001/patient-request-form/internal/submission"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []notify.EmailMessage
	id   string
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg notify.EmailMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.id, f.err
}

type fixedSubmitter struct {
	err error
}

func (f fixedSubmitter) Submit(context.Context, booking.Request) (submission.Receipt, error) {
	return submission.Receipt{}, f.err
}

const validBody = `{"formData":{
	"fullName":"Jane Doe","dateOfBirth":"1990-05-01","gender":"female",
	"phoneNumber":"0712345678","emailAddress":"jane@x.com",
	"service":"antenatal-clinic","preferredDate":"2025-03-10T00:00:00.000Z",
	"preferredTime":"10:00 AM","preferredDoctor":"",
	"isForSelf":true,"patientName":"","patientAge":"","relationshipToPatient":"",
	"reasonForVisit":"","hasReferral":false,"referralDocument":null,"agreeToTerms":true}}`

func newEmailHandler(sender notify.EmailSender) *AppointmentEmailHandler {
	svc := submission.NewService(sender, submission.Config{Recipient: "appointments@premierfamilyclinics.co.ke"}, logging.Discard())
	return NewAppointmentEmailHandler(svc, logging.Discard())
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/send-appointment-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h(rec, req)
	return rec
}

func TestSendAppointmentEmail_Success(t *testing.T) {
	sender := &fakeSender{id: "msg-42"}
	rec := post(newEmailHandler(sender).SendAppointmentEmail, validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"emailId":"msg-42"}`, rec.Body.String())

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "appointments@premierfamilyclinics.co.ke", msg.To)
	assert.Equal(t, "jane@x.com", msg.ReplyTo)
	assert.Equal(t, "New Appointment Request - Jane Doe", msg.Subject)
	assert.Contains(t, msg.Body, "Preferred Date: 3/10/2025")
}

func TestSendAppointmentEmail_UTCTimestampsUseClinicDay(t *testing.T) {
	body := strings.Replace(validBody, `"preferredDate":"2025-03-10T00:00:00.000Z"`, `"preferredDate":"2025-05-31T21:00:00.000Z"`, 1)
	body = strings.Replace(body, `"dateOfBirth":"1990-05-01"`, `"dateOfBirth":"1990-04-30T21:00:00.000Z"`, 1)
	sender := &fakeSender{id: "msg-43"}
	rec := post(newEmailHandler(sender).SendAppointmentEmail, body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Body, "Date of Birth: 5/1/1990\n")
	assert.Contains(t, sender.sent[0].Body, "Preferred Date: 6/1/2025\n")
	assert.Contains(t, sender.sent[0].HTML, "6/1/2025")
}

func TestSendAppointmentEmail_DeliveryFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("The from address does not match a verified Sender Identity")}
	rec := post(newEmailHandler(sender).SendAppointmentEmail, validBody)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "The from address does not match a verified Sender Identity", body.Error)
	assert.Len(t, sender.sent, 1, "exactly one attempt")
}

func TestSendAppointmentEmail_BadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed json", body: `{"formData":`, want: "invalid request body"},
		{name: "missing form data", body: `{}`, want: "formData is required"},
		{name: "missing required", body: `{"formData":{"fullName":"Jane Doe","isForSelf":true}}`, want: "Please fill in all required fields and accept the terms and conditions."},
		{name: "incomplete patient", body: strings.Replace(validBody, `"isForSelf":true`, `"isForSelf":false`, 1), want: "Please provide complete patient information when booking for someone else."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sender := &fakeSender{id: "unused"}
			rec := post(newEmailHandler(sender).SendAppointmentEmail, tc.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.want, body.Error)
			assert.Empty(t, sender.sent)
		})
	}
}

func TestSendAppointmentEmail_InFlightConflict(t *testing.T) {
	h := NewAppointmentEmailHandler(fixedSubmitter{err: submission.ErrSubmissionInFlight}, logging.Discard())
	rec := post(h.SendAppointmentEmail, validBody)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSendAppointmentEmail_BodyTooLarge(t *testing.T) {
	h := newEmailHandler(&fakeSender{})
	rec := post(h.SendAppointmentEmail, `{"formData":{"reasonForVisit":"`+strings.Repeat("a", MaxRequestBody)+`"}}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
