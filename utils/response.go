package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONErrorWithCode attaches a machine-readable error code next to the
// human message, e.g. "overlap_conflict".
func JSONErrorWithCode(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, gin.H{"success": false, "error": gin.H{"code": errCode, "message": message}})
}
