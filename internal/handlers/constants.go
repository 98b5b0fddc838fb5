package handlers

// Cookie names
const (
	SessionCookieName      = "session_id"
	ChildSessionCookieName = "child_session"
)

// CSRFHeaderName is the request header carrying the CSRF token for
// state-changing requests.
const CSRFHeaderName = "X-CSRF-Token"
