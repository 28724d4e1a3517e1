package transport

import (
	"net/http"

	"storefront/internal/config"
	"storefront/internal/service"
)

// Session cookie names.
const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// sessionCookie builds one session cookie: never script-readable, strict
// cross-site policy, transport-secured in production, lifetime equal to
// the token's TTL.
func sessionCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func setSessionCookies(w http.ResponseWriter, tokens *service.TokenPair, jwtCfg config.JWTConfig, secure bool) {
	http.SetCookie(w, sessionCookie(accessTokenCookie, tokens.AccessToken, int(jwtCfg.AccessTTL().Seconds()), secure))
	http.SetCookie(w, sessionCookie(refreshTokenCookie, tokens.RefreshToken, int(jwtCfg.RefreshTTL().Seconds()), secure))
}

func setAccessCookie(w http.ResponseWriter, accessToken string, jwtCfg config.JWTConfig, secure bool) {
	http.SetCookie(w, sessionCookie(accessTokenCookie, accessToken, int(jwtCfg.AccessTTL().Seconds()), secure))
}

func clearSessionCookies(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, sessionCookie(accessTokenCookie, "", -1, secure))
	http.SetCookie(w, sessionCookie(refreshTokenCookie, "", -1, secure))
}
