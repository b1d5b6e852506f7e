package echoapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/escolardev/escolar/core"
	"github.com/escolardev/escolar/core/user"
)

const contextClaimsKey = "claims"

var (
	authConfig = struct {
		appName    string
		secretKey  []byte
		cookieName string
		expDelta   time.Duration
	}{}

	nowFunc = time.Now // mockable
)

// ConfigureAuth sets the token codec parameters. Called once at server setup;
// tests call it directly with their own secret.
func ConfigureAuth(appName string, secretKey []byte, cookieName string, expDelta time.Duration) {
	authConfig.appName = appName
	authConfig.secretKey = secretKey
	authConfig.cookieName = cookieName
	authConfig.expDelta = expDelta
}

// Claims are the signed session contents. They are trusted as-is after
// signature verification: no store lookup on verify, so a role change only
// takes effect on re-login.
type Claims struct {
	DNI  string `json:"dni"`
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

func GetUserClaims(usr user.User) *Claims {
	now := nowFunc().UTC()
	return &Claims{
		DNI:  usr.DNI,
		Role: string(usr.Role),
		Name: usr.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    authConfig.appName,
			Subject:   usr.DNI,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(authConfig.expDelta)),
		},
	}
}

// GenerateToken generates a signed JWT string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(authConfig.secretKey)
}

// ParseToken verifies signature and expiry and returns the embedded claims.
func ParseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errInvalidToken
		}
		return authConfig.secretKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return nowFunc() }))
	if err != nil {
		return nil, errInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}

// newTokenCookie carries the session token to the client. HTTP-only and
// strict same-site: the token is never readable from page scripts. The cookie
// lives exactly as long as the token it carries.
func newTokenCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     authConfig.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(authConfig.expDelta / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// clearTokenCookie logs the client out: empty value, zero TTL.
func clearTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     authConfig.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// authenticate looks up the user by DNI and builds session claims. A lookup
// miss maps to a generic "access denied": the response must not reveal
// whether a DNI exists.
func authenticate(dni string, svc *user.Service) (*Claims, error) {
	usr, err := svc.GetByDNI(dni)
	if err != nil {
		if err == user.ErrNotFound {
			return nil, errAccessDenied
		}
		return nil, err
	}
	return GetUserClaims(usr), nil
}

// claimsFromCookie extracts and verifies the session token on a request.
func claimsFromCookie(ctx echo.Context) (*Claims, error) {
	cookie, err := ctx.Cookie(authConfig.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, errUnauthorized
	}
	return ParseToken(cookie.Value)
}

func getContextClaims(ctx echo.Context) (*Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(*Claims); ok {
		return claims, nil
	}
	return nil, errUnauthorized
}

func mustSecretKey() []byte {
	key := core.Conf.GetString("secretKey")
	if key == "" {
		panic("secretKey is not set; refusing to sign session tokens without one")
	}
	return []byte(key)
}
