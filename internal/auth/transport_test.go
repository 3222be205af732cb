package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartpersona/backend/internal/config"
	"github.com/smartpersona/backend/internal/domain"
)

func TestCookieValue(t *testing.T) {
	cases := []struct {
		header, name, want string
	}{
		{"act=abc; rft=def", "act", "abc"},
		{"act=abc; rft=def", "rft", "def"},
		{"act_admin=xyz; act=abc", "act", "abc"},
		{"act=first; act=second", "act", "first"},
		{"  act = padded ;", "act", "padded"},
		{"flag; act=abc", "act", "abc"},
		{"act=a=b", "act", "a=b"},
		{"other=1", "act", ""},
		{"", "act", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CookieValue(tc.header, tc.name), tc.header)
	}
}

func extractWith(t *testing.T, header http.Header, extract func(*fiber.Ctx) string) string {
	t.Helper()
	var got string
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = extract(c)
		return nil
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header = header
	_, err := app.Test(req)
	require.NoError(t, err)
	return got
}

func TestExtractBearer(t *testing.T) {
	cases := map[string]string{
		"Bearer abc.def.ghi":   "abc.def.ghi",
		"bearer   abc.def.ghi ": "abc.def.ghi",
		"Basic dXNlcjpwYXNz":   "",
		"Bearer":               "",
		"":                     "",
	}
	for header, want := range cases {
		h := http.Header{}
		if header != "" {
			h.Set("Authorization", header)
		}
		assert.Equal(t, want, extractWith(t, h, ExtractBearer), header)
	}
}

func TestExtractCookie(t *testing.T) {
	h := http.Header{}
	h.Set("Cookie", "act=regular; act_admin=admin")
	assert.Equal(t, "admin", extractWith(t, h, func(c *fiber.Ctx) string { return ExtractCookie(c, "act_admin") }))
	assert.Equal(t, "regular", extractWith(t, h, func(c *fiber.Ctx) string { return ExtractCookie(c, "act") }))
}

func TestSessionCookies_Attributes(t *testing.T) {
	transport := NewSessionTransport(config.CookieConfig{ParentDomain: "smartpersona.io"}, config.StageDevelopment)
	cookies := transport.SessionCookies(domain.Passport{AccessToken: "a", RefreshToken: "r"}, RegularSessionCookies, "", "")

	require.Len(t, cookies, 2)
	assert.Equal(t, "act", cookies[0].Name)
	assert.Equal(t, "a", cookies[0].Value)
	assert.Equal(t, "rft", cookies[1].Name)
	assert.Equal(t, "r", cookies[1].Value)
	for _, ck := range cookies {
		assert.True(t, ck.HTTPOnly)
		assert.Equal(t, fiber.CookieSameSiteLaxMode, ck.SameSite)
		assert.Equal(t, "/", ck.Path)
		assert.Equal(t, 14*24*60*60, ck.MaxAge)
		assert.False(t, ck.Secure)
		assert.Empty(t, ck.Domain)
	}
}

func TestSessionCookies_SecureOnlyInProduction(t *testing.T) {
	for stage, secure := range map[config.Stage]bool{
		config.StageLocal:       false,
		config.StageDevelopment: false,
		config.StageProduction:  true,
	} {
		transport := NewSessionTransport(config.CookieConfig{}, stage)
		for _, ck := range transport.SessionCookies(domain.Passport{}, AdminSessionCookies, "", "") {
			assert.Equal(t, secure, ck.Secure, string(stage))
		}
	}
}

func TestSessionCookies_Domain(t *testing.T) {
	transport := NewSessionTransport(config.CookieConfig{ParentDomain: ".SmartPersona.io"}, config.StageProduction)
	cases := []struct {
		origin, referer, want string
	}{
		{"https://app.smartpersona.io", "", "smartpersona.io"},
		{"https://smartpersona.io:8443", "", "smartpersona.io"},
		{"", "https://admin.smartpersona.io/dashboard?x=1", "smartpersona.io"},
		{"https://evil-smartpersona.io", "", ""},
		{"https://smartpersona.io.evil.com", "", ""},
		{"http://localhost:3000", "https://app.smartpersona.io/", ""},
		{"::not a url", "", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		cookies := transport.SessionCookies(domain.Passport{}, RegularSessionCookies, tc.origin, tc.referer)
		assert.Equal(t, tc.want, cookies[0].Domain, "origin=%q referer=%q", tc.origin, tc.referer)
		assert.Equal(t, tc.want, cookies[1].Domain)
	}
}

func TestRemovalCookies(t *testing.T) {
	transport := NewSessionTransport(config.CookieConfig{ParentDomain: "smartpersona.io"}, config.StageProduction)
	cookies := transport.RemovalCookies(AdminSessionCookies, "https://admin.smartpersona.io", "")

	require.Len(t, cookies, 2)
	assert.Equal(t, "act_admin", cookies[0].Name)
	assert.Equal(t, "rft_admin", cookies[1].Name)
	for _, ck := range cookies {
		assert.Empty(t, ck.Value)
		assert.Equal(t, -1, ck.MaxAge)
		assert.Equal(t, int64(0), ck.Expires.Unix())
		assert.Equal(t, "smartpersona.io", ck.Domain)
		assert.True(t, ck.Secure)
	}
}

func TestSetCookies_WritesHeaders(t *testing.T) {
	transport := NewSessionTransport(config.CookieConfig{}, config.StageLocal)
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		SetCookies(c, transport.SessionCookies(domain.Passport{AccessToken: "aaa", RefreshToken: "rrr"}, RegularSessionCookies, "", ""))
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)

	got := map[string]*http.Cookie{}
	for _, ck := range resp.Cookies() {
		got[ck.Name] = ck
	}
	require.Contains(t, got, "act")
	require.Contains(t, got, "rft")
	assert.Equal(t, "aaa", got["act"].Value)
	assert.Equal(t, 1209600, got["rft"].MaxAge)
	assert.True(t, got["act"].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, got["act"].SameSite)
}
