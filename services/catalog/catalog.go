package catalog

import (
	"fmt"
	"time"

	"barberbook/models"
)

// BusinessHours describes the daily slot grid. CloseHour is exclusive.
type BusinessHours struct {
	OpenHour    int
	CloseHour   int
	SlotMinutes int
}

// DefaultHours is the reference configuration: 10:00 through 18:30.
var DefaultHours = BusinessHours{OpenHour: 10, CloseHour: 19, SlotMinutes: 30}

var defaultServices = []models.Service{
	models.NewService(1, "Haircut - Master Barber", "Premium haircut service by master barber", 60, 30),
	models.NewService(2, "Haircut - Senior Barber", "Professional haircut by senior barber", 50, 30),
	models.NewService(3, "Buzz Cut", "Quick and clean buzz cut", 30, 30),
	models.NewService(4, "Beard Trim", "Professional beard shaping and trimming", 20, 30),
	models.NewService(5, "Beard Trim & Razor", "Beard trim with straight razor finish", 40, 30),
	models.NewService(6, "Haircut & Beard Trim Straight Razor", "Complete grooming with straight razor", 90, 60),
	models.NewService(7, "Haircut & Straight Razor Shave", "Premium haircut with traditional straight razor shave", 120, 60),
	models.NewService(8, "Hot Towel Shave", "Traditional hot towel straight razor shave", 60, 30),
}

var avatars = map[string]string{
	"Al":      "/images/barbers/al.jpeg",
	"Cynthia": "/images/barbers/cynthia.jpeg",
	"Eric":    "/images/barbers/eric.jpg",
	"John":    "/images/barbers/john.jpg",
	"Nick":    "/images/barbers/nick.jpeg",
	"Riza":    "/images/barbers/riza.jpeg",
}

var defaultProviders = []models.Provider{
	models.NewProvider(1, "Al", "Master Barber - All Services", 5.0, avatars["Al"]),
	models.NewProvider(2, "Cynthia", "Master Barber - All Services", 5.0, avatars["Cynthia"]),
	models.NewProvider(3, "Eric", "Senior Barber", 5.0, avatars["Eric"]),
	models.NewProvider(4, "John", "Master Barber - All Services", 5.0, avatars["John"]),
	models.NewProvider(5, "Nick", "Master Barber - All Services", 5.0, avatars["Nick"]),
	models.NewProvider(6, "Riza", "Senior Barber", 5.0, avatars["Riza"]),
}

// Catalog is the fixed, ordered reference data of the shop.
type Catalog struct {
	services  []models.Service
	providers []models.Provider
	hours     BusinessHours
}

// New returns the shop catalog using the given business hours.
// A zero SlotMinutes falls back to DefaultHours.
func New(hours BusinessHours) *Catalog {
	if hours.SlotMinutes <= 0 || hours.CloseHour <= hours.OpenHour {
		hours = DefaultHours
	}
	return &Catalog{
		services:  defaultServices,
		providers: defaultProviders,
		hours:     hours,
	}
}

// Default returns the catalog with the reference business hours.
func Default() *Catalog {
	return New(DefaultHours)
}

// Services returns a copy of the service list in catalog order.
func (c *Catalog) Services() []models.Service {
	return append([]models.Service(nil), c.services...)
}

// Providers returns a copy of the concrete barbers in catalog order.
func (c *Catalog) Providers() []models.Provider {
	return append([]models.Provider(nil), c.providers...)
}

// ServiceByID looks a service up by id.
func (c *Catalog) ServiceByID(id int) (models.Service, bool) {
	for _, s := range c.services {
		if s.ID == id {
			return s, true
		}
	}
	return models.Service{}, false
}

// ServicesByID resolves ids in the given order. Unknown ids are a validation error.
func (c *Catalog) ServicesByID(ids []int) ([]models.Service, error) {
	out := make([]models.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := c.ServiceByID(id)
		if !ok {
			return nil, &models.ValidationError{Field: "serviceIds", Message: fmt.Sprintf("unknown service %d", id)}
		}
		out = append(out, s)
	}
	return out, nil
}

// ProviderByID looks a concrete barber up by id.
func (c *Catalog) ProviderByID(id int) (models.Provider, bool) {
	for _, p := range c.providers {
		if p.IDValue() == id {
			return p, true
		}
	}
	return models.Provider{}, false
}

// Hours returns the configured business hours.
func (c *Catalog) Hours() BusinessHours {
	return c.hours
}

// SlotsFor returns the slot grid for date. The grid does not depend on the
// date; real bookings are filtered out by the availability backend.
func (c *Catalog) SlotsFor(date time.Time) []models.TimeSlot {
	return buildSlots(c.hours)
}

// IsSlot reports whether slot lies on the grid.
func (c *Catalog) IsSlot(slot models.TimeSlot) bool {
	for _, s := range buildSlots(c.hours) {
		if s == slot {
			return true
		}
	}
	return false
}

// SlotsFor returns the reference grid, 10:00 through 18:30 in half hours.
func SlotsFor(date time.Time) []models.TimeSlot {
	return buildSlots(DefaultHours)
}

func buildSlots(h BusinessHours) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, (h.CloseHour-h.OpenHour)*60/h.SlotMinutes)
	for hour := h.OpenHour; hour < h.CloseHour; hour++ {
		for minute := 0; minute < 60; minute += h.SlotMinutes {
			slots = append(slots, models.TimeSlot(fmt.Sprintf("%02d:%02d", hour, minute)))
		}
	}
	return slots
}

// AvatarFor returns the image path for a barber's first name, if known.
func AvatarFor(name string) string {
	return avatars[name]
}
