package handlers

import (
	"net/http"

	"collabBoard/internal/errs"
	"collabBoard/internal/models"
	"collabBoard/internal/utils"

	"github.com/gin-gonic/gin"
)

// UploadCanvasImage godoc
// @Summary      Upload an image for an image object
// @Description  Stores the file in object storage and returns its public URL. Needs edit permission on the whiteboard.
// @Tags         canvas
// @Accept       multipart/form-data
// @Produce      json
// @Param        whiteboard  formData  int   true  "Whiteboard ID"
// @Param        image       formData  file  true  "Image file"
// @Success      201  {object}  models.Response{data=models.UploadImageResponse}
// @Failure      400  {object}  models.Response
// @Failure      403  {object}  models.Response
// @Failure      503  {object}  models.Response
// @Security     BearerAuth
// @Router       /api/canvas/images [post]
func (rh *RestHandler) UploadCanvasImage(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}

	whiteboardID, err := utils.ParseID(ctx.PostForm("whiteboard"))
	if err != nil {
		abortWithError(ctx, errs.ErrInvalidWhiteboardId)
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		abortWithError(ctx, errs.ErrNoFileUploaded)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(ctx, errs.ErrUnableToOpenUploadedFile)
		return
	}
	defer file.Close()

	url, err := rh.fileManagerService.UploadCanvasImage(
		ctx.Request.Context(),
		identity,
		whiteboardID,
		fileHeader.Filename,
		file,
		fileHeader.Size,
	)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, models.UploadImageResponse{URL: url})
}
