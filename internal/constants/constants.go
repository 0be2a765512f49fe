package constants

const (
	// Session
	SessionCookieName = "paradb_session"
	ContextKeyUserID  = "user_id"

	// Validation
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 50

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Identifier prefixes
	UserIDPrefix = "U"
	MapIDPrefix  = "M"
)
