package errors

var (
	// Domain errors shared by the store and the HTTP handlers.
	ErrEmailTaken           = AlreadyExists("a user with that email already exists")
	ErrUsernameTaken        = AlreadyExists("that username is already taken")
	ErrInvalidCredentials   = InvalidArg("invalid email or password")
	ErrUserNotFound         = NotFound("user not found")
	ErrProductNotFound      = NotFound("product not found")
	ErrNotProductOwner      = Forbidden("you are not the owner of this product")
	ErrConversationNotFound = NotFound("conversation not found")
	ErrNotParticipant       = Forbidden("you are not part of this conversation")
	ErrInvalidParticipants  = InvalidArg("a valid receiver id is required")
	ErrEmptyContent         = InvalidArg("message content cannot be empty")
	ErrOwnProduct           = FailedPrecondition("you cannot purchase your own product")
	ErrMissingToken         = Unauthorized("missing token")
	ErrInvalidToken         = Unauthorized("invalid token")
)
