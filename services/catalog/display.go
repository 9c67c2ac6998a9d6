package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"barberbook/models"
)

// SplitAMPM groups slots into morning and afternoon for display.
func SplitAMPM(slots []models.TimeSlot) (am, pm []models.TimeSlot) {
	for _, s := range slots {
		if slotHour(s) < 12 {
			am = append(am, s)
		} else {
			pm = append(pm, s)
		}
	}
	return am, pm
}

// Label12h renders "14:30" as "2:30".
func Label12h(slot models.TimeSlot) string {
	hour := slotHour(slot)
	_, minutes, _ := strings.Cut(string(slot), ":")
	h12 := hour
	switch {
	case hour == 0:
		h12 = 12
	case hour > 12:
		h12 = hour - 12
	}
	return fmt.Sprintf("%d:%s", h12, minutes)
}

func slotHour(slot models.TimeSlot) int {
	hours, _, _ := strings.Cut(string(slot), ":")
	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0
	}
	return h
}
