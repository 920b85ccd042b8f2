package service

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"
	"time"

	"charterbook/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var senderCfg = SenderConfig{
	BusinessName: "Captain Mike's Charters",
	OwnerEmail:   "owner@example.com",
	OwnerPhone:   "+15550001111",
}

func sampleBooking() entities.Booking {
	return entities.Booking{
		ID:        "b-1",
		Date:      date(time.July, 10),
		SlotType:  entities.SlotAM,
		Name:      "Jane Doe",
		Phone:     "5551234567",
		Email:     "jane@example.com",
		PartySize: 4,
		Status:    entities.StatusConfirmed,
	}
}

func TestNotifyBookingCreated_SendsCustomerOwnerAndSMS(t *testing.T) {
	mailer, sms := &recordingMailer{}, &recordingSMS{}
	s := NewSenderService(mailer, sms, senderCfg, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.NotifyBookingCreated(ctx, sampleBooking())
	cancel()
	s.Wait()

	require.Len(t, mailer.sent, 2)
	customer, owner := mailer.sent[0], mailer.sent[1]

	assert.Equal(t, "jane@example.com", customer.To)
	assert.Equal(t, "Captain Mike's Charters - Booking Confirmed", customer.Subject)
	assert.Contains(t, customer.Text, "Date: Thursday, July 10, 2025")
	assert.Contains(t, customer.Text, "Trip Type: Half-Day Morning (6 hours)")
	assert.NotContains(t, customer.Text, "Notes:")
	assert.Contains(t, customer.HTML, "<li style=\"margin-bottom: 6px;\">Party Size: 4</li>")

	assert.Equal(t, "owner@example.com", owner.To)
	assert.Equal(t, "New Booking - Captain Mike's Charters", owner.Subject)
	assert.True(t, strings.HasPrefix(owner.Text, "New booking received."))

	require.Len(t, sms.bodies, 1)
	assert.True(t, strings.HasPrefix(sms.bodies[0], "+15550001111: "))
}

func TestNotifyBookingCreated_FailuresAreSwallowed(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("quota exceeded")}
	s := NewSenderService(mailer, nil, senderCfg, zap.NewNop())

	s.NotifyBookingCreated(context.Background(), sampleBooking())
	s.Wait()

	assert.Len(t, mailer.sent, 2)
}

func TestBookingDetailLines_IncludesNotesWhenPresent(t *testing.T) {
	b := sampleBooking()
	b.Notes = "Two kids"
	lines := bookingDetailLines(b)
	assert.Equal(t, "Notes: Two kids", lines[len(lines)-1])
}

func TestSendDigest_SkipsWithoutMailer(t *testing.T) {
	s := NewSenderService(nil, nil, senderCfg, zap.NewNop())
	assert.NoError(t, s.SendDigest(context.Background(), []entities.Booking{sampleBooking()}, date(time.July, 1), date(time.July, 8)))
}

func TestBuildMIMEMessage(t *testing.T) {
	raw, err := buildMIMEMessage(
		mail.Address{Name: "Captain Mike's Charters", Address: "bookings@example.com"},
		Email{To: "jane@example.com", ToName: "Jane", Subject: "Booking Confirmed", Text: "plain body", HTML: "<p>html body</p>"},
	)
	require.NoError(t, err)

	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)
	assert.Equal(t, "Booking Confirmed", msg.Header.Get("Subject"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	var types, bodies []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(part)
		require.NoError(t, err)
		types = append(types, part.Header.Get("Content-Type"))
		bodies = append(bodies, string(body))
	}
	assert.Equal(t, []string{"text/plain; charset=UTF-8", "text/html; charset=UTF-8"}, types)
	assert.Equal(t, []string{"plain body", "<p>html body</p>"}, bodies)
}
