package auth

import (
	"querybench/internal/config"
)

// Session is the immutable authentication state threaded through a run.
// Refreshing never mutates an existing Session; WithToken returns a new value
// so retry chains cannot observe a half-updated session.
type Session struct {
	Mode     config.AuthMode
	Username string
	Password string
	Token    string
	BaseURL  string
}

// NewSession builds the initial session from configuration.
func NewSession(baseURL string, authCfg config.AuthConfig) Session {
	return Session{
		Mode:     authCfg.Mode,
		Username: authCfg.Username,
		Password: authCfg.Password,
		Token:    authCfg.Token,
		BaseURL:  baseURL,
	}
}

// WithToken returns a copy of the session carrying the refreshed token.
func (s Session) WithToken(token string) Session {
	s.Token = token
	return s
}
