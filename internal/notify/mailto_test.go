package notify

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

func TestMailtoURI(t *testing.T) {
	msg := EmailMessage{
		Subject: "Appointment Booking Request - Jane Doe",
		Body:    "Full Name: Jane & Co\nTime: 9:00 AM +1",
	}

	uri := MailtoURI("appointments@clinic.test", msg)

	assert.Contains(t, uri, "mailto:appointments@clinic.test?subject=Appointment%20Booking%20Request%20-%20Jane%20Doe&body=")
	assert.NotContains(t, uri, "+")

	parsed, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "mailto", parsed.Scheme)
	q, err := url.ParseQuery(parsed.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, msg.Subject, q.Get("subject"))
	assert.Equal(t, msg.Body, q.Get("body"))
}

func TestOpenCommand(t *testing.T) {
	name, args := openCommand("darwin", "mailto:x")
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"mailto:x"}, args)

	name, _ = openCommand("linux", "mailto:x")
	assert.Equal(t, "xdg-open", name)

	name, args = openCommand("windows", "mailto:x")
	assert.Equal(t, "rundll32", name)
	assert.Equal(t, "mailto:x", args[len(args)-1])
}

func TestMailtoSender_Send(t *testing.T) {
	var opened string
	sender := NewMailtoSender(OpenerFunc(func(uri string) error {
		opened = uri
		return nil
	}), logging.Discard())

	id, err := sender.Send(context.Background(), EmailMessage{To: "appointments@clinic.test", Subject: "s", Body: "b"})
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, "mailto:appointments@clinic.test?subject=s&body=b", opened)
}

func TestMailtoSender_OpenerFailure(t *testing.T) {
	sender := NewMailtoSender(OpenerFunc(func(string) error {
		return errors.New("no handler for mailto")
	}), logging.Discard())

	_, err := sender.Send(context.Background(), EmailMessage{To: "a@b.c"})
	assert.EqualError(t, err, "no handler for mailto")
}
