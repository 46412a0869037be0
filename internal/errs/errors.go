package errs

import "strings"

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody = Error("invalid request body")
	ErrInvalidRequest     = Error("invalid request")
	ErrInvalidParams      = Error("invalid params")
	ErrUnauthorized       = Error("unauthorized")

	// Connection-level authentication failures.
	ErrMissingToken = Error("missing token")
	ErrInvalidToken = Error("invalid token")
	ErrExpiredToken = Error("token has expired")
	ErrMissingClaim = Error("token contained no recognizable user identification")

	ErrPermissionDenied    = Error("permission denied")
	ErrOnlyOwnerCanShare   = Error("only owner can share whiteboard")
	ErrOnlyOwnerCanDelete  = Error("only owner can delete whiteboard")
	ErrWhiteboardNotFound  = Error("whiteboard not found")
	ErrWhiteboardRequired  = Error("whiteboard is required")
	ErrInvalidWhiteboardId = Error("invalid whiteboard id")

	ErrObjectNotFound    = Error("canvas object not found")
	ErrObjectLocked      = Error("object is locked by another user")
	ErrNotLockHolder     = Error("you did not lock this object")
	ErrInvalidObjectId   = Error("invalid object id")
	ErrInvalidObjectType = Error("invalid object type")
	ErrInvalidColor      = Error("color must be in hex format (#RRGGBB)")
	ErrMissingPosition   = Error("x and y are required")
	ErrInvalidDimensions = Error("width, height and stroke width must not be negative")
	ErrMissingId         = Error("id is required")

	ErrInvalidPermissionLevel = Error("invalid permission level")
	ErrInvalidUserId          = Error("invalid user id")
	ErrNameRequired           = Error("name is required")

	ErrNoFileUploaded           = Error("no file uploaded")
	ErrUnableToOpenUploadedFile = Error("unable to open uploaded file")
	ErrUnableToUploadFile       = Error("unable to upload file")
	ErrFileStorageDisabled      = Error("file storage is not configured")
	ErrInvalidFileType          = Error("only image uploads are accepted")
)

const ErrInternal = Error("internal server error")

// ValidationErrors collects field errors for one request. Handlers answer 400 with
// each entry listed in the response.
type ValidationErrors []error

func (ve ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve))
	for _, err := range ve {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (ve ValidationErrors) Unwrap() []error { return ve }
