package auth

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/smartpersona/backend/internal/config"
	"github.com/smartpersona/backend/internal/domain"
)

// SessionCookieMaxAge outlives the access token on purpose; the refresh
// token decides whether the session continues.
const SessionCookieMaxAge = 14 * 24 * time.Hour

// CookieNames is the access/refresh cookie pair of one session kind.
type CookieNames struct {
	Access  string
	Refresh string
}

var (
	// RegularSessionCookies hold persona and company sessions.
	RegularSessionCookies = CookieNames{Access: "act", Refresh: "rft"}
	// AdminSessionCookies hold admin sessions next to a regular one.
	AdminSessionCookies = CookieNames{Access: "act_admin", Refresh: "rft_admin"}
)

// ExtractBearer returns the token of an "Authorization: Bearer" header, or "".
func ExtractBearer(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ExtractCookie returns the value of the named request cookie, or "".
func ExtractCookie(c *fiber.Ctx, name string) string {
	return CookieValue(c.Get(fiber.HeaderCookie), name)
}

// CookieValue scans a raw Cookie header; the first pair named name wins.
func CookieValue(header, name string) string {
	for _, pair := range strings.Split(header, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			continue
		}
		if strings.TrimSpace(key) == name {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// SessionTransport builds outbound session cookies.
type SessionTransport struct {
	parentDomain string
	stage        config.Stage
}

// NewSessionTransport constructs a transport for the given cookie settings and stage.
func NewSessionTransport(cfg config.CookieConfig, stage config.Stage) *SessionTransport {
	return &SessionTransport{parentDomain: strings.ToLower(strings.TrimPrefix(cfg.ParentDomain, ".")), stage: stage}
}

// SessionCookies returns the access and refresh cookies carrying p.
func (t *SessionTransport) SessionCookies(p domain.Passport, names CookieNames, origin, referer string) []*fiber.Cookie {
	domainAttr := t.cookieDomain(origin, referer)
	return []*fiber.Cookie{
		t.cookie(names.Access, p.AccessToken, domainAttr),
		t.cookie(names.Refresh, p.RefreshToken, domainAttr),
	}
}

// RemovalCookies returns cookies that make the browser drop both session cookies.
func (t *SessionTransport) RemovalCookies(names CookieNames, origin, referer string) []*fiber.Cookie {
	domainAttr := t.cookieDomain(origin, referer)
	out := make([]*fiber.Cookie, 0, 2)
	for _, name := range []string{names.Access, names.Refresh} {
		ck := t.cookie(name, "", domainAttr)
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0).UTC()
		out = append(out, ck)
	}
	return out
}

// SetCookies writes cookies onto the response.
func SetCookies(c *fiber.Ctx, cookies []*fiber.Cookie) {
	for _, ck := range cookies {
		c.Cookie(ck)
	}
}

func (t *SessionTransport) cookie(name, value, domainAttr string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   domainAttr,
		MaxAge:   int(SessionCookieMaxAge / time.Second),
		Secure:   t.stage == config.StageProduction,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// cookieDomain returns the shared parent domain when the caller's Origin
// (or Referer) lives under it; otherwise the cookie stays host-only.
func (t *SessionTransport) cookieDomain(origin, referer string) string {
	if t.parentDomain == "" {
		return ""
	}
	host := hostOf(origin)
	if host == "" {
		host = hostOf(referer)
	}
	if host == t.parentDomain || strings.HasSuffix(host, "."+t.parentDomain) {
		return t.parentDomain
	}
	return ""
}

func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
