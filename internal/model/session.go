package model

// Session is the authenticated caller of a request, decoded from the
// session token. It is never persisted; the matching User row is found
// (or provisioned) by the identity resolver.
type Session struct {
	UserID string
	Email  string
	Name   string
	Image  string
}

func (s *Session) HasEmail() bool {
	return s != nil && s.Email != ""
}
