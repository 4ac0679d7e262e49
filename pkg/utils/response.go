package utils

import (
	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PaymentErrorResponse is the x402-style error body: the machine-readable
// requirement rides along so a client can construct a payment and retry.
type PaymentErrorResponse struct {
	Error   string      `json:"error"`
	Status  int         `json:"status"`
	Reason  string      `json:"reason,omitempty"`
	Payment interface{} `json:"payment,omitempty"`
}

func SuccessResponse(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, code int, message string, err error) {
	response := APIResponse{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(code, response)
}

func PaymentRequired(c *gin.Context, message, reason string, requirement interface{}) {
	c.JSON(402, PaymentErrorResponse{
		Error:   message,
		Status:  402,
		Reason:  reason,
		Payment: requirement,
	})
}
