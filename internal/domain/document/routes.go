package document

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /file under an authenticated group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	files := r.Group("/file")
	{
		files.POST("/upload", h.Upload)
		files.GET("/download/:id", h.Download)
		files.GET("/getAll", h.ListByOwner)
	}
}
