package handlers

import (
	"net/http"

	"collabBoard/internal/errs"
	"collabBoard/internal/models"
	"collabBoard/internal/msgs"

	"github.com/gin-gonic/gin"
)

// ListWhiteboards godoc
// @Summary      List whiteboards the caller owns or was granted
// @Tags         whiteboards
// @Produce      json
// @Success      200  {object}  models.Response{data=[]models.Whiteboard}
// @Failure      401  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/whiteboards [get]
func (rh *RestHandler) ListWhiteboards(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}

	whiteboards, err := rh.whiteboardService.List(ctx.Request.Context(), identity)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, whiteboards)
}

// CreateWhiteboard godoc
// @Summary      Create a whiteboard owned by the caller
// @Tags         whiteboards
// @Accept       json
// @Produce      json
// @Param        whiteboard  body      models.CreateWhiteboardRequest  true  "Whiteboard"
// @Success      201  {object}  models.Response{data=models.Whiteboard}
// @Failure      400  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/whiteboards [post]
func (rh *RestHandler) CreateWhiteboard(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}

	var req models.CreateWhiteboardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	whiteboard, err := rh.whiteboardService.Create(ctx.Request.Context(), identity, &req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, whiteboard)
}

// GetWhiteboard godoc
// @Summary      Get a whiteboard
// @Tags         whiteboards
// @Produce      json
// @Param        id   path      int  true  "Whiteboard ID"
// @Success      200  {object}  models.Response{data=models.Whiteboard}
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/whiteboards/{id} [get]
func (rh *RestHandler) GetWhiteboard(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	id, ok := rh.pathID(ctx, "id", errs.ErrInvalidWhiteboardId)
	if !ok {
		return
	}

	whiteboard, err := rh.whiteboardService.Get(ctx.Request.Context(), identity, id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, whiteboard)
}

// UpdateWhiteboard godoc
// @Summary      Rename, archive or publish a whiteboard
// @Tags         whiteboards
// @Accept       json
// @Produce      json
// @Param        id          path      int                             true  "Whiteboard ID"
// @Param        whiteboard  body      models.UpdateWhiteboardRequest  true  "Fields to change"
// @Success      200  {object}  models.Response{data=models.Whiteboard}
// @Failure      400  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/whiteboards/{id} [patch]
func (rh *RestHandler) UpdateWhiteboard(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	id, ok := rh.pathID(ctx, "id", errs.ErrInvalidWhiteboardId)
	if !ok {
		return
	}

	var req models.UpdateWhiteboardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	whiteboard, err := rh.whiteboardService.Update(ctx.Request.Context(), identity, id, &req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, whiteboard)
}

// DeleteWhiteboard godoc
// @Summary      Delete a whiteboard with its objects and grants
// @Tags         whiteboards
// @Param        id   path  int  true  "Whiteboard ID"
// @Success      204
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/whiteboards/{id} [delete]
func (rh *RestHandler) DeleteWhiteboard(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	id, ok := rh.pathID(ctx, "id", errs.ErrInvalidWhiteboardId)
	if !ok {
		return
	}

	if err := rh.whiteboardService.Delete(ctx.Request.Context(), identity, id); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ShareWhiteboard godoc
// @Summary      Grant a user access to a whiteboard
// @Description  Owner only. Returns 201 for a new grant and 200 when an existing one was changed.
// @Tags         whiteboards
// @Accept       json
// @Produce      json
// @Param        id     path      int                            true  "Whiteboard ID"
// @Param        share  body      models.ShareWhiteboardRequest  true  "Grant"
// @Success      200  {object}  models.Response{data=models.WhiteboardPermission}
// @Success      201  {object}  models.Response{data=models.WhiteboardPermission}
// @Failure      400  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Failure      404  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/whiteboards/{id}/share [post]
func (rh *RestHandler) ShareWhiteboard(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	id, ok := rh.pathID(ctx, "id", errs.ErrInvalidWhiteboardId)
	if !ok {
		return
	}

	var req models.ShareWhiteboardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		abortWithError(ctx, errs.ErrInvalidRequestBody)
		return
	}

	result, err := rh.whiteboardService.Share(ctx.Request.Context(), identity, id, &req)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	ctx.JSON(status, models.Response{
		Success: true,
		Message: msgs.MsgWhiteboardShared,
		Data:    result.Permission,
	})
}
