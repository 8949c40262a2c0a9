package domain

const (
	ScopeProfileRead  = "profile:read"
	ScopeProfileWrite = "profile:write"
	ScopeRecordsRead  = "records:read"
	ScopeRecordsWrite = "records:write"
	ScopeReportsRead  = "reports:read"
)

// DefaultScopes are granted to every signed-in user.
var DefaultScopes = []string{
	ScopeProfileRead,
	ScopeProfileWrite,
	ScopeRecordsRead,
	ScopeRecordsWrite,
	ScopeReportsRead,
}
