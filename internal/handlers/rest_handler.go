package handlers

import (
	"errors"
	"net/http"

	"collabBoard/internal/errs"
	"collabBoard/internal/logging"
	"collabBoard/internal/models"
	"collabBoard/internal/msgs"
	"collabBoard/internal/services"
	"collabBoard/internal/utils"

	"github.com/gin-gonic/gin"
)

type RestHandler struct {
	whiteboardService  *services.WhiteboardService
	canvasService      *services.CanvasService
	lockCoordinator    *services.LockCoordinator
	fileManagerService *services.FileManagerService
}

func NewRestHandler(
	whiteboardService *services.WhiteboardService,
	canvasService *services.CanvasService,
	lockCoordinator *services.LockCoordinator,
	fileManagerService *services.FileManagerService,
) *RestHandler {
	return &RestHandler{
		whiteboardService:  whiteboardService,
		canvasService:      canvasService,
		lockCoordinator:    lockCoordinator,
		fileManagerService: fileManagerService,
	}
}

// identity returns the authenticated caller or aborts with 401.
func (rh *RestHandler) identity(ctx *gin.Context) (models.Identity, bool) {
	identity, ok := utils.GetIdentity(ctx)
	if !ok {
		abortWithError(ctx, errs.ErrUnauthorized)
	}
	return identity, ok
}

func (rh *RestHandler) pathID(ctx *gin.Context, name string, invalid error) (uint, bool) {
	id, err := utils.ParseID(ctx.Param(name))
	if err != nil {
		abortWithError(ctx, invalid)
		return 0, false
	}
	return id, true
}

func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    data,
	})
}

func statusFromError(err error) int {
	var validationErrs errs.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrUnauthorized),
		errors.Is(err, errs.ErrMissingToken),
		errors.Is(err, errs.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrPermissionDenied),
		errors.Is(err, errs.ErrNotLockHolder),
		errors.Is(err, errs.ErrOnlyOwnerCanShare),
		errors.Is(err, errs.ErrOnlyOwnerCanDelete):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrWhiteboardNotFound),
		errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrObjectLocked):
		return http.StatusLocked
	case errors.Is(err, errs.ErrInvalidRequestBody),
		errors.Is(err, errs.ErrInvalidRequest),
		errors.Is(err, errs.ErrInvalidParams),
		errors.Is(err, errs.ErrInvalidWhiteboardId),
		errors.Is(err, errs.ErrInvalidObjectId),
		errors.Is(err, errs.ErrNoFileUploaded),
		errors.Is(err, errs.ErrUnableToOpenUploadedFile):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrFileStorageDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrUnableToUploadFile):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError maps err onto a status code and the Response envelope.
// Unexpected errors are logged and replaced with a generic one.
func abortWithError(ctx *gin.Context, err error) {
	status := statusFromError(err)

	var errorList []error
	var validationErrs errs.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		errorList = validationErrs
	case status == http.StatusBadGateway:
		logging.Error().Err(err).Str("path", ctx.FullPath()).Msg("file storage failed")
		errorList = []error{errs.ErrUnableToUploadFile}
	case status == http.StatusInternalServerError:
		logging.Error().Err(err).Str("path", ctx.FullPath()).Msg("request failed")
		errorList = []error{errs.ErrInternal}
	default:
		errorList = []error{err}
	}

	message := msgs.MsgOperationFailed
	switch status {
	case http.StatusUnauthorized:
		message = msgs.MsgYouMustLoginFirst
	case http.StatusForbidden:
		message = msgs.MsgPermissionDenied
	case http.StatusLocked:
		message = msgs.MsgObjectLocked
	}

	ctx.AbortWithStatusJSON(status, models.Response{
		Success: false,
		Message: message,
		Errors:  errorList,
	})
}
