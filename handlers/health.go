package handlers

import (
	"net/http"

	"barberbook/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the last dependency check.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Backend {
		code = http.StatusServiceUnavailable
	}
	for _, ok := range status.Redis {
		if !ok {
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{"status": http.StatusText(code), "checks": status})
}
