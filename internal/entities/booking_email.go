package entities

// BookingEmailData feeds the HTML email template.
type BookingEmailData struct {
	BusinessName string
	Heading      string
	Intro        string
	Lines        []string
	Footer       string
	CurrentYear  int
}
