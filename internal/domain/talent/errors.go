package talent

import "errors"

var (
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrNoRoleHistory        = errors.New("candidate has no role history")
	ErrFirstRole            = errors.New("role has no predecessor to compare against")
	ErrNoApplications       = errors.New("candidate has no applications")
	ErrUnknownChangeType    = errors.New("unknown role change type")
	ErrNoEmailAddress       = errors.New("no email address in cell")
	ErrDuplicateEmail       = errors.New("email address already in use")
	ErrUnknownLookupValue   = errors.New("value not present in lookup dimension")
	ErrEmptyLookupDimension = errors.New("lookup dimension has no values")
)
