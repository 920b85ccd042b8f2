package entities

type BookingsList struct {
	Total    int       `json:"total"`
	Bookings []Booking `json:"bookings"`
}

type BlocksList struct {
	Total  int           `json:"total"`
	Blocks []BlockedSlot `json:"blocks"`
}
