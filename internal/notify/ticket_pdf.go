// Package notify renders booking artifacts handed to the customer, the
// printable ticket PDF among them.
package notify

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/cinemacousas/cinema-booking/internal/repository"
)

// TicketData is everything printed on one ticket document.
type TicketData struct {
	Booking *repository.BookingDetail
	Seats   []repository.BookedSeat
}

// seatLabel formats a seat as row letter plus column, e.g. "C7".
func seatLabel(s repository.BookedSeat) string {
	return fmt.Sprintf("%s%d", s.Row, s.Column)
}

// startClock formats the seconds-since-midnight start time as HH:MM.
func startClock(secs uint32) string {
	return fmt.Sprintf("%02d:%02d", secs/3600, secs%3600/60)
}

// RenderTicketPDF builds the A4 ticket for a booking: screening header,
// one line per spectator and seat, the total paid, and a QR code of the
// booking reference for scanning at the door.
func RenderTicketPDF(t TicketData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Cinema Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, t.Booking.MovieName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Room %s", t.Booking.RoomName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("%s at %s (%d min)",
		t.Booking.Date.Format("Monday 2 January 2006"),
		startClock(t.Booking.StartTime),
		t.Booking.MovieDuration), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Booked by %s %s", t.Booking.FirstName, t.Booking.LastName), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(30, 8, "Seat", "B", 0, "L", false, 0, "")
	pdf.CellFormat(90, 8, "Spectator", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Age", "B", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "PMR", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, s := range t.Seats {
		pmr := ""
		if s.PMR {
			pmr = "yes"
		}
		pdf.CellFormat(30, 7, seatLabel(s), "", 0, "L", false, 0, "")
		pdf.CellFormat(90, 7, fmt.Sprintf("%s %s", s.FirstName, s.LastName), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", s.Age), "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, pmr, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total paid: %.2f EUR", t.Booking.Price), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Reference %s, issued %s",
		t.Booking.Reference, time.Now().UTC().Format("2006-01-02 15:04 UTC")), "", 1, "L", false, 0, "")

	png, err := qrcode.Encode(t.Booking.Reference, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("booking-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("booking-qr", 150, 20, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
