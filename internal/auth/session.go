package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nft1025/task/internal/domain"
)

// CookieName carries the encoded session on the client. There is no
// server-side session record: validity is "cookie present, parses, has
// both fields".
const CookieName = "session"

// Manager issues, reads, and clears the session cookie.
type Manager struct {
	maxAge time.Duration
	secure bool
	log    zerolog.Logger
}

func NewManager(maxAge time.Duration, secure bool, log zerolog.Logger) *Manager {
	return &Manager{maxAge: maxAge, secure: secure, log: log}
}

// Issue writes the session cookie for a user: httpOnly, SameSite=Lax.
func (m *Manager) Issue(c *gin.Context, user domain.User) {
	value := encodeSession(domain.Session{UserID: user.ID, Username: user.Username})
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, int(m.maxAge.Seconds()), "/", "", m.secure, true)
}

// Clear deletes the session cookie. It never fails the caller, even when
// no cookie existed.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}

// Get parses the session cookie. It returns nil on absence or a malformed
// or incomplete value, never an error.
func (m *Manager) Get(c *gin.Context) *domain.Session {
	value, err := c.Cookie(CookieName)
	if err != nil || value == "" {
		return nil
	}
	sess, ok := decodeSession(value)
	if !ok {
		m.log.Warn().Msg("discarding malformed session cookie")
		return nil
	}
	return &sess
}

func encodeSession(s domain.Session) string {
	raw, _ := json.Marshal(s)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeSession(value string) (domain.Session, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return domain.Session{}, false
	}
	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Session{}, false
	}
	if s.UserID == "" || s.Username == "" {
		return domain.Session{}, false
	}
	return s, true
}
