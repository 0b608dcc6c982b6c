package response

import "github.com/gin-gonic/gin"

const (
	CodeBadRequest     = 40000
	CodeNotFound       = 40400
	CodeInternalServer = 50000
)

type APIResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}

// Page renders the plain error page used by the HTML endpoints.
func Page(c *gin.Context, httpStatus int, message string) {
	c.HTML(httpStatus, "error.html", gin.H{
		"Status":  httpStatus,
		"Message": message,
	})
}
