package response

import "github.com/gin-gonic/gin"

// Error codes returned in the "error.code" field.
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeNotFound        = "NOT_FOUND"
	CodeStorageFailure  = "STORAGE_FAILURE"
	CodeMetadataFailure = "METADATA_FAILURE"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
