package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"charterbook/internal/entities"
	"charterbook/internal/utils"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

//go:embed templates/booking_email.html
var templateFS embed.FS

var bookingEmailTemplate = template.Must(template.ParseFS(templateFS, "templates/booking_email.html"))

const notifyTimeout = 30 * time.Second

type SenderConfig struct {
	BusinessName string
	OwnerEmail   string
	OwnerPhone   string
}

// SenderService delivers booking notifications over email and SMS. Either
// transport may be nil, in which case that channel is skipped.
type SenderService struct {
	mailer Mailer
	sms    SMSSender
	cfg    SenderConfig
	logger *zap.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

func NewSenderService(mailer Mailer, sms SMSSender, cfg SenderConfig, logger *zap.Logger) *SenderService {
	return &SenderService{
		mailer: mailer,
		sms:    sms,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// NotifyBookingCreated sends the customer confirmation, the owner alert and
// the optional owner SMS in the background. Failures are logged only.
func (s *SenderService) NotifyBookingCreated(ctx context.Context, b entities.Booking) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		s.sendBookingCreated(ctx, b)
	}()
}

// Wait blocks until in-flight notifications finish.
func (s *SenderService) Wait() {
	s.wg.Wait()
}

func (s *SenderService) sendBookingCreated(ctx context.Context, b entities.Booking) {
	log := s.logger.With(zap.String("booking_id", b.ID), zap.Stringer("date", b.Date), zap.String("slot", string(b.SlotType)))

	if s.mailer != nil {
		customer, err := s.customerConfirmation(b)
		if err != nil {
			log.Error("render customer email failed", zap.Error(err))
		} else if err := s.mailer.Send(ctx, customer); err != nil {
			log.Error("customer email failed", zap.Error(err))
		} else {
			log.Info("customer email sent")
		}

		if s.cfg.OwnerEmail != "" {
			owner, err := s.ownerAlert(b)
			if err != nil {
				log.Error("render owner email failed", zap.Error(err))
			} else if err := s.mailer.Send(ctx, owner); err != nil {
				log.Error("owner email failed", zap.Error(err))
			} else {
				log.Info("owner email sent")
			}
		}
	}

	if s.sms != nil && s.cfg.OwnerPhone != "" {
		if err := s.sms.SendSMS(ctx, s.cfg.OwnerPhone, s.ownerSMS(b)); err != nil {
			log.Error("owner sms failed", zap.Error(err))
		}
	}
}

func (s *SenderService) customerConfirmation(b entities.Booking) (Email, error) {
	data := entities.BookingEmailData{
		BusinessName: s.cfg.BusinessName,
		Heading:      s.cfg.BusinessName + " - Booking Confirmed",
		Intro:        "Thanks for booking with " + s.cfg.BusinessName + "!",
		Lines:        bookingDetailLines(b),
		Footer:       "If you have any questions, reply to this email.",
		CurrentYear:  s.now().Year(),
	}
	html, err := renderEmail(data)
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:      b.Email,
		ToName:  b.Name,
		Subject: s.cfg.BusinessName + " - Booking Confirmed",
		Text:    plainText(data),
		HTML:    html,
	}, nil
}

func (s *SenderService) ownerAlert(b entities.Booking) (Email, error) {
	data := entities.BookingEmailData{
		BusinessName: s.cfg.BusinessName,
		Heading:      "New booking received",
		Intro:        "New booking received.",
		Lines:        bookingDetailLines(b),
		CurrentYear:  s.now().Year(),
	}
	html, err := renderEmail(data)
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:      s.cfg.OwnerEmail,
		Subject: "New Booking - " + s.cfg.BusinessName,
		Text:    plainText(data),
		HTML:    html,
	}, nil
}

func (s *SenderService) ownerSMS(b entities.Booking) string {
	d := utils.SlotDetailsFor(b.SlotType)
	return fmt.Sprintf("%s: new booking %s, %s (%s). %s, party of %d, %s",
		s.cfg.BusinessName, longDate(b.Date), d.Label, d.Time, b.Name, b.PartySize, b.Phone)
}

// SendDigest emails the owner the given upcoming charters. It is synchronous;
// callers decide how to handle the error.
func (s *SenderService) SendDigest(ctx context.Context, bookings []entities.Booking, from, to civil.Date) error {
	if s.mailer == nil || s.cfg.OwnerEmail == "" {
		return nil
	}
	lines := make([]string, 0, len(bookings))
	for _, b := range bookings {
		d := utils.SlotDetailsFor(b.SlotType)
		lines = append(lines, fmt.Sprintf("%s - %s (%s): %s, party of %d, %s",
			longDate(b.Date), d.Label, d.Time, b.Name, b.PartySize, b.Phone))
	}
	data := entities.BookingEmailData{
		BusinessName: s.cfg.BusinessName,
		Heading:      "Upcoming charters",
		Intro:        fmt.Sprintf("Confirmed charters from %s to %s:", longDate(from), longDate(to)),
		Lines:        lines,
		CurrentYear:  s.now().Year(),
	}
	html, err := renderEmail(data)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, Email{
		To:      s.cfg.OwnerEmail,
		Subject: "Upcoming Charters - " + s.cfg.BusinessName,
		Text:    plainText(data),
		HTML:    html,
	})
}

func bookingDetailLines(b entities.Booking) []string {
	d := utils.SlotDetailsFor(b.SlotType)
	lines := []string{
		"Date: " + longDate(b.Date),
		"Time: " + d.Time,
		fmt.Sprintf("Trip Type: %s (%s)", d.Label, d.Duration),
		fmt.Sprintf("Party Size: %d", b.PartySize),
		"Name: " + b.Name,
		"Email: " + b.Email,
		"Phone: " + b.Phone,
	}
	if b.Notes != "" {
		lines = append(lines, "Notes: "+b.Notes)
	}
	return lines
}

// longDate formats like "Thursday, July 10, 2025".
func longDate(d civil.Date) string {
	return d.In(time.UTC).Format("Monday, January 2, 2006")
}

func renderEmail(data entities.BookingEmailData) (string, error) {
	var buf bytes.Buffer
	if err := bookingEmailTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

func plainText(data entities.BookingEmailData) string {
	parts := []string{data.Intro, "", strings.Join(data.Lines, "\n")}
	if data.Footer != "" {
		parts = append(parts, "", data.Footer)
	}
	return strings.Join(parts, "\n")
}
