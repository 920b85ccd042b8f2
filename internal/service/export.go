package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"charterbook/internal/entities"

	"cloud.google.com/go/civil"
)

var exportHeader = []string{"Date", "Slot", "Name", "Phone", "Email", "Party Size", "Notes", "Status", "Created"}

// ExportCSV renders the bookings matching filter as CSV and returns it with
// the attachment filename.
func (s *AdminService) ExportCSV(ctx context.Context, filter entities.BookingFilter) ([]byte, string, error) {
	list, err := s.ListBookings(ctx, filter)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := WriteBookingsCSV(&buf, list.Bookings, s.availability.clock.Location()); err != nil {
		return nil, "", fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), ExportFilename(s.availability.Today()), nil
}

// WriteBookingsCSV writes one quoted row per booking after the header.
// Creation times are shown in loc.
func WriteBookingsCSV(w io.Writer, bookings []entities.Booking, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	if _, err := io.WriteString(w, csvRow(exportHeader)); err != nil {
		return err
	}
	for _, b := range bookings {
		row := csvRow([]string{
			b.Date.String(),
			string(b.SlotType),
			b.Name,
			b.Phone,
			b.Email,
			strconv.Itoa(b.PartySize),
			b.Notes,
			string(b.Status),
			b.CreatedAt.In(loc).Format("2006-01-02 15:04"),
		})
		if _, err := io.WriteString(w, "\n"+row); err != nil {
			return err
		}
	}
	return nil
}

func csvRow(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

func ExportFilename(today civil.Date) string {
	return "bookings-" + today.String() + ".csv"
}
