package handlers

import (
	"net/http"
	"time"

	"barberbook/models"
	"barberbook/services/catalog"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the static shop reference data.
type CatalogHandler struct {
	catalog  *catalog.Catalog
	location *time.Location
}

func NewCatalogHandler(cat *catalog.Catalog, loc *time.Location) *CatalogHandler {
	if loc == nil {
		loc = time.Local
	}
	return &CatalogHandler{catalog: cat, location: loc}
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	respond(c, http.StatusOK, "", h.catalog.Services())
}

func (h *CatalogHandler) ListProviders(c *gin.Context) {
	respond(c, http.StatusOK, "", h.catalog.Providers())
}

type slotView struct {
	Value models.TimeSlot `json:"value"`
	Label string          `json:"label"`
}

func slotViews(slots []models.TimeSlot) []slotView {
	out := make([]slotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotView{Value: s, Label: catalog.Label12h(s)})
	}
	return out
}

// ListSlots returns the day's slots grouped into morning and afternoon.
func (h *CatalogHandler) ListSlots(c *gin.Context) {
	day := time.Now().In(h.location)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.location)
		if err != nil {
			fail(c, &models.ValidationError{Field: "date", Message: "Date must be in YYYY-MM-DD format", Err: err})
			return
		}
		day = parsed
	}

	am, pm := catalog.SplitAMPM(h.catalog.SlotsFor(day))
	respond(c, http.StatusOK, "", gin.H{
		"date": day.Format("2006-01-02"),
		"am":   slotViews(am),
		"pm":   slotViews(pm),
	})
}
