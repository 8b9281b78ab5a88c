package utils

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondAppError derives the HTTP status from the error taxonomy.
func RespondAppError(c *gin.Context, err error) {
	RespondError(c, StatusForError(err), err)
}

// FormatCurrency formats an amount as Chilean pesos, e.g. 12500 -> "$12.500".
// Fractional parts below one peso are dropped; prices are whole-peso amounts.
func FormatCurrency(amount float64) string {
	formatted := fmt.Sprintf("%.0f", amount)

	var result []string
	for i := len(formatted); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		result = append([]string{formatted[start:i]}, result...)
	}

	return "$" + strings.Join(result, ".")
}
