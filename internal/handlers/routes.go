package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the authenticated REST surface on api, which is
// expected to be the /api group with authentication already applied.
func (rh *RestHandler) RegisterRoutes(api *gin.RouterGroup) {
	whiteboards := api.Group("/whiteboards")
	whiteboards.GET("", rh.ListWhiteboards)
	whiteboards.POST("", rh.CreateWhiteboard)
	whiteboards.GET("/:id", rh.GetWhiteboard)
	whiteboards.PATCH("/:id", rh.UpdateWhiteboard)
	whiteboards.DELETE("/:id", rh.DeleteWhiteboard)
	whiteboards.POST("/:id/share", rh.ShareWhiteboard)

	canvas := api.Group("/canvas")
	canvas.POST("/images", rh.UploadCanvasImage)

	objects := canvas.Group("/objects")
	objects.GET("", rh.ListCanvasObjects)
	objects.POST("", rh.CreateCanvasObject)
	objects.POST("/bulk_create", rh.BulkCreateCanvasObjects)
	objects.POST("/bulk_update", rh.BulkUpdateCanvasObjects)
	objects.POST("/bulk_delete", rh.BulkDeleteCanvasObjects)
	objects.GET("/:id", rh.GetCanvasObject)
	objects.PUT("/:id", rh.UpdateCanvasObject)
	objects.PATCH("/:id", rh.UpdateCanvasObject)
	objects.DELETE("/:id", rh.DeleteCanvasObject)
	objects.POST("/:id/lock", rh.LockCanvasObject)
	objects.POST("/:id/unlock", rh.UnlockCanvasObject)
}

func (swh *SocketWhiteboardHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/ws/:whiteboardId", swh.HandleSocketWhiteboardRoute)
}
