package session

import "github.com/fhuszti/creatives-ms-go/internal/model"

// canAccess reports whether the caller may read or delete this session.
// Owned sessions belong to exactly one identity. Anonymous sessions are
// capability-addressed: knowing the UUID is the credential.
func canAccess(sess *model.UploadSession, callerID *string) bool {
	if sess.OwnerID == nil {
		return true
	}
	return callerID != nil && *callerID == *sess.OwnerID
}
