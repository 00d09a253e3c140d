// Command bookingform is an interactive terminal version of the clinic
// appointment request form.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/DavidJ001/patient-request-form/internal/booking"
	"github.com/DavidJ001/patient-request-form/internal/client"
	"github.com/DavidJ001/patient-request-form/internal/clinic"
	appconfig "github.com/DavidJ001/patient-request-form/internal/config"
	"github.com/DavidJ001/patient-request-form/internal/notify"
	"github.com/DavidJ001/patient-request-form/internal/submission"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errAborted) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "bookingform:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg := appconfig.Load()

	fs := flag.NewFlagSet("bookingform", flag.ContinueOnError)
	endpoint := fs.String("endpoint", cfg.BookingEndpoint, "appointment email endpoint URL")
	referrals := fs.String("referral-endpoint", "", "referral upload endpoint URL (optional)")
	apiKey := fs.String("api-key", os.Getenv("BOOKING_API_KEY"), "key sent in the apikey header")
	useMailto := fs.Bool("mailto", false, "open the local mail client instead of calling the endpoint")
	profilePath := fs.String("profile", cfg.ClinicProfilePath, "clinic profile YAML")
	logLevel := fs.String("log-level", "error", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := logging.New(*logLevel)
	profile, err := clinic.LoadProfile(*profilePath)
	if err != nil {
		return err
	}
	recipient := profile.AppointmentsInbox
	if cfg.AppointmentsInbox != "" {
		recipient = cfg.AppointmentsInbox
	}
	formatter := notify.Formatter{
		SubjectPrefix: cfg.SubjectPrefix,
		DateLayout:    cfg.DateLayout,
		ClinicName:    profile.Name,
		Location:      profile.Location(),
	}

	a := &app{
		prompts:   surveyPrompter{},
		form:      booking.NewForm(),
		formatter: formatter,
		out:       out,
		now:       time.Now,
	}

	mailto := *useMailto || strings.TrimSpace(*endpoint) == ""
	if mailto {
		a.mailto = true
		a.submitter = submission.NewService(notify.NewMailtoSender(nil, logger), submission.Config{
			Recipient: recipient,
			Formatter: formatter,
		}, logger)
	} else {
		c := client.New(*endpoint, logger, client.WithAPIKey(*apiKey), client.WithReferralEndpoint(*referrals))
		a.submitter = c
		a.uploader = c
	}

	printProfile(out, profile)
	return a.loop(ctx)
}

// app runs the edit, preview, send cycle.
type app struct {
	prompts   Prompter
	form      *booking.Form
	formatter notify.Formatter
	submitter submission.Submitter
	uploader  referralUploader
	mailto    bool
	out       io.Writer
	now       func() time.Time
}

func (a *app) loop(ctx context.Context) error {
	session := submission.NewSession(a.form, a.submitter)
	wiz := &wizard{prompts: a.prompts, form: a.form, out: a.out, now: a.now, uploader: a.uploader}

	edit := true
	for {
		if edit {
			if err := wiz.run(ctx); err != nil {
				return err
			}
		}

		if result := booking.Validate(a.form.Snapshot()); !result.OK() {
			fmt.Fprintf(a.out, "\n%s: %s\n", result.Title(), result.Message)
			edit = true
			continue
		}

		msg := a.formatter.Format(a.form.Snapshot())
		fmt.Fprintf(a.out, "\n----- Preview -----\nSubject: %s\n\n%s-------------------\n", msg.Subject, msg.TextBody)
		send, err := a.prompts.Confirm(ctx, "Book Appointment?", true)
		if err != nil {
			return err
		}
		if !send {
			edit = true
			continue
		}

		fmt.Fprintln(a.out, "Sending Request...")
		_, err = session.Submit(ctx)
		if err == nil {
			a.printSuccess()
			return nil
		}

		title, text := submission.Describe(err)
		fmt.Fprintf(a.out, "\n%s: %s\n", title, text)
		retry, perr := a.prompts.Confirm(ctx, "Try again?", true)
		if perr != nil {
			return perr
		}
		if !retry {
			return err
		}
		// Delivery failures keep the answers; go straight back to sending.
		edit = !errors.Is(err, submission.ErrDeliveryFailure)
	}
}

func (a *app) printSuccess() {
	if a.mailto {
		fmt.Fprintln(a.out, "\nEmail client opened")
		fmt.Fprintln(a.out, "Please send the email from your email client to complete your appointment request.")
		return
	}
	fmt.Fprintln(a.out, "\nAppointment Request Sent!")
	fmt.Fprintln(a.out, "We've received your appointment request and will contact you soon to confirm.")
}

func printProfile(out io.Writer, p clinic.Profile) {
	fmt.Fprintf(out, "%s\n%s\n", p.Name, p.Tagline)
	fmt.Fprintf(out, "%s | %s | %s\n", p.PhoneNote, p.AppointmentsInbox, p.Hours)
	for _, link := range p.Menu {
		fmt.Fprintf(out, "  %s: %s\n", link.Title, link.URL)
	}
}
