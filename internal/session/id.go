package session

import (
	"github.com/google/uuid"
)

// GenerateID mints a new session identifier. The URN form
// ("urn:uuid:...") is what the web front-end already stores, so it is
// kept for compatibility.
func GenerateID() string {
	return uuid.New().URN()
}
