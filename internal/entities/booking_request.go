package entities

// BookingRequest is the customer submission. Date is a YYYY-MM-DD calendar day.
type BookingRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	SlotType  string `json:"slot_type" validate:"required,oneof=AM PM FULL"`
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Phone     string `json:"phone" validate:"required,min=10,max=20"`
	Email     string `json:"email" validate:"required,email,max=255"`
	PartySize int    `json:"party_size" validate:"min=1,max=6"`
	Notes     string `json:"notes" validate:"max=500"`
}

type BlockRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	SlotType string `json:"slot_type" validate:"required,oneof=AM PM FULL"`
	Reason   string `json:"reason" validate:"max=200"`
}
