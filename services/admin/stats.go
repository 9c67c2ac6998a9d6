package admin

import (
	"barberbook/models"

	"github.com/shopspring/decimal"
)

// Revenue sums booking totals by bucket.
type Revenue struct {
	Today          decimal.Decimal `json:"today"`
	TodayCompleted decimal.Decimal `json:"todayCompleted"`
	Total          decimal.Decimal `json:"total"` // completed bookings only
	Pending        decimal.Decimal `json:"pending"`
	Cancelled      decimal.Decimal `json:"cancelled"`
}

// Stats are the dashboard counters.
type Stats struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	Confirmed      int     `json:"confirmed"`
	Completed      int     `json:"completed"`
	Cancelled      int     `json:"cancelled"`
	TodayCount     int     `json:"todayCount"`
	TodayCompleted int     `json:"todayCompleted"`
	Revenue        Revenue `json:"revenue"`
}

// Stats computes counters over the current list. today is YYYY-MM-DD.
func (r *DefaultAdminService) Stats(today string) Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{
		Total: len(r.bookings),
		Revenue: Revenue{
			Today:          decimal.Zero,
			TodayCompleted: decimal.Zero,
			Total:          decimal.Zero,
			Pending:        decimal.Zero,
			Cancelled:      decimal.Zero,
		},
	}
	for _, b := range r.bookings {
		switch b.Status {
		case models.StatusPending:
			s.Pending++
			s.Revenue.Pending = s.Revenue.Pending.Add(b.TotalPrice)
		case models.StatusConfirmed:
			s.Confirmed++
		case models.StatusCompleted:
			s.Completed++
			s.Revenue.Total = s.Revenue.Total.Add(b.TotalPrice)
		case models.StatusCancelled:
			s.Cancelled++
			s.Revenue.Cancelled = s.Revenue.Cancelled.Add(b.TotalPrice)
		}
		if b.Date != today {
			continue
		}
		s.TodayCount++
		s.Revenue.Today = s.Revenue.Today.Add(b.TotalPrice)
		if b.Status == models.StatusCompleted {
			s.TodayCompleted++
			s.Revenue.TodayCompleted = s.Revenue.TodayCompleted.Add(b.TotalPrice)
		}
	}
	return s
}
