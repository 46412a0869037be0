package handlers

import (
	"net/http"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"
	"collabBoard/internal/models"
	"collabBoard/internal/msgs"
	"collabBoard/internal/utils"

	"github.com/gin-gonic/gin"
)

// ListCanvasObjects godoc
// @Summary      List canvas objects of a whiteboard
// @Tags         canvas
// @Produce      json
// @Param        whiteboard  query     int     true   "Whiteboard ID"
// @Param        type        query     string  false  "Object type filter"
// @Success      200  {object}  models.Response{data=[]models.CanvasObject}
// @Failure      400  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/canvas/objects [get]
func (rh *RestHandler) ListCanvasObjects(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}

	var whiteboardID uint
	if raw := ctx.Query("whiteboard"); raw != "" {
		id, err := utils.ParseID(raw)
		if err != nil {
			abortWithError(ctx, errs.ErrInvalidWhiteboardId)
			return
		}
		whiteboardID = id
	}

	objects, err := rh.canvasService.List(ctx.Request.Context(), identity, whiteboardID, enums.ObjectType(ctx.Query("type")))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, objects)
}

// CreateCanvasObject godoc
// @Summary      Create a canvas object
// @Tags         canvas
// @Accept       json
// @Produce      json
// @Param        object  body      models.CreateCanvasObjectRequest  true  "Object"
// @Success      201  {object}  models.Response{data=models.CanvasObject}
// @Failure      400  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/canvas/objects [post]
func (rh *RestHandler) CreateCanvasObject(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}

	var req models.CreateCanvasObjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	object, err := rh.canvasService.Create(ctx.Request.Context(), identity, &req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, object)
}

// GetCanvasObject godoc
// @Summary      Get a canvas object
// @Tags         canvas
// @Produce      json
// @Param        id   path      int  true  "Object ID"
// @Success      200  {object}  models.Response{data=models.CanvasObject}
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/canvas/objects/{id} [get]
func (rh *RestHandler) GetCanvasObject(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	id, ok := rh.pathID(ctx, "id", errs.ErrInvalidObjectId)
	if !ok {
		return
	}

	object, err := rh.canvasService.Get(ctx.Request.Context(), identity, id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, object)
}

// UpdateCanvasObject godoc
// @Summary      Update a canvas object
// @Description  PUT and PATCH both apply a partial update. Fails with 423 while another user holds the lock.
// @Tags         canvas
// @Accept       json
// @Produce      json
// @Param        id      path      int                               true  "Object ID"
// @Param        object  body      models.UpdateCanvasObjectRequest  true  "Fields to change"
// @Success      200  {object}  models.Response{data=models.CanvasObject}
// @Failure      400  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Failure      423  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/canvas/objects/{id} [put]
// @Router       /api/canvas/objects/{id} [patch]
func (rh *RestHandler) UpdateCanvasObject(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	id, ok := rh.pathID(ctx, "id", errs.ErrInvalidObjectId)
	if !ok {
		return
	}

	var req models.UpdateCanvasObjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	object, err := rh.canvasService.Update(ctx.Request.Context(), identity, id, &req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, object)
}

// DeleteCanvasObject godoc
// @Summary      Delete a canvas object
// @Description  Needs edit permission. The advisory lock is not checked.
// @Tags         canvas
// @Param        id   path  int  true  "Object ID"
// @Success      204
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/canvas/objects/{id} [delete]
func (rh *RestHandler) DeleteCanvasObject(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	id, ok := rh.pathID(ctx, "id", errs.ErrInvalidObjectId)
	if !ok {
		return
	}

	if err := rh.canvasService.Delete(ctx.Request.Context(), identity, id); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// BulkCreateCanvasObjects godoc
// @Summary      Create several objects atomically
// @Tags         canvas
// @Accept       json
// @Produce      json
// @Param        body  body      models.BulkCreateRequest  true  "Objects"
// @Success      201  {object}  models.Response{data=[]models.CanvasObject}
// @Failure      400  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/canvas/objects/bulk_create [post]
func (rh *RestHandler) BulkCreateCanvasObjects(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}

	var req models.BulkCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	objects, err := rh.canvasService.BulkCreate(ctx.Request.Context(), identity, &req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, objects)
}

// BulkUpdateCanvasObjects godoc
// @Summary      Update several objects
// @Description  Items that cannot be applied are skipped and listed; the rest are committed.
// @Tags         canvas
// @Accept       json
// @Produce      json
// @Param        body  body      models.BulkUpdateRequest  true  "Updates"
// @Success      200  {object}  models.Response{data=models.BulkUpdateResponse}
// @Failure      400  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/canvas/objects/bulk_update [post]
func (rh *RestHandler) BulkUpdateCanvasObjects(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}

	var req models.BulkUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	result, err := rh.canvasService.BulkUpdate(ctx.Request.Context(), identity, &req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	message := msgs.MsgOperationSuccessful
	if len(result.Skipped) > 0 {
		message = msgs.MsgPartiallySuccessful
	}
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: message,
		Data:    result,
	})
}

// BulkDeleteCanvasObjects godoc
// @Summary      Delete several objects
// @Tags         canvas
// @Accept       json
// @Produce      json
// @Param        body  body      models.BulkDeleteRequest  true  "IDs"
// @Success      200  {object}  models.Response{data=models.BulkDeleteResponse}
// @Failure      400  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/canvas/objects/bulk_delete [post]
func (rh *RestHandler) BulkDeleteCanvasObjects(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}

	var req models.BulkDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	result, err := rh.canvasService.BulkDelete(ctx.Request.Context(), identity, &req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, result)
}

// LockCanvasObject godoc
// @Summary      Lock an object for editing
// @Tags         canvas
// @Produce      json
// @Param        id   path      int  true  "Object ID"
// @Success      200  {object}  models.Response{data=models.CanvasObject}
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Failure      423  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/canvas/objects/{id}/lock [post]
func (rh *RestHandler) LockCanvasObject(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	id, ok := rh.pathID(ctx, "id", errs.ErrInvalidObjectId)
	if !ok {
		return
	}

	object, err := rh.lockCoordinator.Lock(ctx.Request.Context(), identity, id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, object)
}

// UnlockCanvasObject godoc
// @Summary      Release an object lock
// @Tags         canvas
// @Produce      json
// @Param        id   path      int  true  "Object ID"
// @Success      200  {object}  models.Response{data=models.CanvasObject}
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/canvas/objects/{id}/unlock [post]
func (rh *RestHandler) UnlockCanvasObject(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	id, ok := rh.pathID(ctx, "id", errs.ErrInvalidObjectId)
	if !ok {
		return
	}

	object, err := rh.lockCoordinator.Unlock(ctx.Request.Context(), identity, id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, object)
}
