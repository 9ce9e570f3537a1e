package api

import (
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	flashCookieName = "roster_flash"
	flashTTL        = 5 * time.Minute

	flashOK    = "ok"
	flashError = "erro"

	// Browsers drop cookies over 4KB; these bounds keep the signed token under it
	flashMaxRunes    = 300
	flashMaxMessages = 4
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type flashClaims struct {
	Messages []Flash `json:"messages"`
	jwt.RegisteredClaims
}

// flashStore keeps pending messages in a cookie signed with the app secret
type flashStore struct {
	secret []byte
	secure bool
}

func newFlashStore(secret string, secure bool) *flashStore {
	return &flashStore{secret: []byte(secret), secure: secure}
}

// Add queues a message for the next page render. Long messages are
// truncated and only the most recent messages are kept.
func (s *flashStore) Add(c *gin.Context, category, message string) error {
	messages := append(s.read(c), Flash{Category: category, Message: truncateRunes(message, flashMaxRunes)})
	if len(messages) > flashMaxMessages {
		messages = messages[len(messages)-flashMaxMessages:]
	}

	now := time.Now()
	claims := flashClaims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, token, int(flashTTL.Seconds()), "/", "", s.secure, true)
	return nil
}

// Pop returns the queued messages and clears the cookie
func (s *flashStore) Pop(c *gin.Context) []Flash {
	messages := s.read(c)
	if _, err := c.Cookie(flashCookieName); err == nil {
		c.SetCookie(flashCookieName, "", -1, "/", "", s.secure, true)
	}
	return messages
}

// read ignores tampered, expired and malformed cookies
func (s *flashStore) read(c *gin.Context) []Flash {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}

	claims := &flashClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil
	}
	return claims.Messages
}

// truncateRunes cuts s to at most n runes, marking the cut with an ellipsis
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
