package errors

var (
	// Domain errors — used in service/repository
	ErrMissingFields      = InvalidArg("sender_id, receiver_id and payload are required")
	ErrSelfMessage        = InvalidArg("sender and receiver must differ")
	ErrUserBlocked        = Blocked("messaging is blocked between these users")
	ErrMessageNotFound    = NotFound("message not found")
	ErrInvalidMessageID   = InvalidArg("invalid message id")
	ErrInvalidPayloadKind = InvalidArg("payload kind must be text, image or file")
)
