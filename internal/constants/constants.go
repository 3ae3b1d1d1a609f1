package constants

// Context keys shared by middleware and handlers.
const (
	ContextKeyUserID             = "user_id"
	ContextKeyOrganization       = "organization"
	ContextKeyOrganizationMember = "organization_member"
	ContextKeyRequestID          = "request_id"
)

const (
	SessionCookieName = "org_session"
	RequestIDHeader   = "X-Request-ID"
)

const MinPasswordLength = 8

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
