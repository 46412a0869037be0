package msgs

const (
	MsgOperationSuccessful = "Operation successful"
	MsgOperationFailed     = "Operation failed"
	MsgYouMustLoginFirst   = "You must login first"
	MsgObjectLocked        = "Object is locked by another user"
	MsgPermissionDenied    = "You do not have permission to perform this action"
	MsgPartiallySuccessful = "Some items could not be processed"
	MsgWhiteboardShared    = "Whiteboard shared successfully"
	MsgTooManyRequests     = "Too many requests"
	MsgHealthy             = "healthy"
	MsgServiceName         = "realtime-service"
)

// Close reasons sent with websocket.ClosePolicyViolation, or CloseGoingAway
// while shutting down.
const (
	CloseReasonMissingToken       = "Missing token"
	CloseReasonInvalidToken       = "Invalid token"
	CloseReasonPermissionDenied   = "Permission denied"
	CloseReasonWhiteboardNotFound = "Whiteboard not found"
	CloseReasonShuttingDown       = "Server shutting down"
)
