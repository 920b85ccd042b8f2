package api

import (
	"time"

	"charterbook/internal/entities"

	"cloud.google.com/go/civil"
)

// Availability
type CalendarResponse struct {
	From  civil.Date             `json:"from"`
	To    civil.Date             `json:"to"`
	Today civil.Date             `json:"today"`
	Days  []entities.CalendarDay `json:"days"`
}

type DayAvailabilityResponse struct {
	Date         civil.Date                `json:"date"`
	Availability entities.SlotAvailability `json:"availability"`
	Bookable     bool                      `json:"bookable"`
}

// Bookings
type BookingResponse struct {
	Booking *entities.Booking `json:"booking"`
	Message string            `json:"message"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Auth
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
