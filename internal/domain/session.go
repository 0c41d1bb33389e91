package domain

import (
	"strings"
	"time"
)

// AdminUsername is the account allowed to back up and restore board data.
const AdminUsername = "admin"

// Session is the locally held credential.
type Session struct {
	Token    string
	Username string
	SavedAt  time.Time
}

// IsValid checks if the session carries a token.
func (s Session) IsValid() bool {
	return strings.TrimSpace(s.Token) != ""
}

// IsAdmin reports whether the session belongs to the admin account.
func (s Session) IsAdmin() bool {
	return s.Username == AdminUsername
}

// Initial returns the upper-cased first letter of the username, or "?".
func (s Session) Initial() string {
	for _, r := range s.Username {
		return strings.ToUpper(string(r))
	}
	return "?"
}
