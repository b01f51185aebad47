package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sigeu/internal/auth"
	apperrors "sigeu/internal/errors"
	"sigeu/internal/logger"
	"sigeu/internal/model"
	"sigeu/internal/repository"
)

const (
	claimsContextKey = "auth.claims"
	userContextKey   = "auth.user"
)

var (
	errTokenMissing  = apperrors.New(apperrors.ErrUnauthenticated, "Token no proporcionado")
	errTokenExpired  = apperrors.New(apperrors.ErrUnauthenticated, "Token expirado")
	errTokenInvalid  = apperrors.New(apperrors.ErrUnauthenticated, "Token inválido")
	errTokenRevoked  = apperrors.New(apperrors.ErrUnauthenticated, "Token revocado")
	errUserInactive  = apperrors.New(apperrors.ErrUnauthenticated, "Usuario no encontrado o inactivo")
	errForbiddenRole = apperrors.New(apperrors.ErrUnauthorized, "No tienes permisos para realizar esta acción")
)

// Authenticator guards routes with a session bearer token. The token must
// verify, must not be revoked and must belong to a currently active user.
type Authenticator struct {
	jwt    *auth.JWTService
	tokens auth.TokenStoreInterface
	users  repository.UserRepository
	log    *logger.Logger
}

// NewAuthenticator builds the auth gate.
func NewAuthenticator(jwtService *auth.JWTService, tokens auth.TokenStoreInterface, users repository.UserRepository, log *logger.Logger) *Authenticator {
	if log == nil {
		log = logger.Nop()
	}
	return &Authenticator{jwt: jwtService, tokens: tokens, users: users, log: log}
}

// Middleware returns the echo middleware for protected groups.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return a.jwt.VerifySession(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var missing *echojwt.TokenExtractionError
			switch {
			case errors.As(err, &missing):
				return errTokenMissing
			case errors.Is(err, auth.ErrTokenExpired):
				return errTokenExpired
			default:
				return errTokenInvalid
			}
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(a.resolve(next))
	}
}

func (a *Authenticator) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(claimsContextKey).(*auth.Claims)
		if !ok {
			return errTokenInvalid
		}
		ctx := c.Request().Context()

		revoked, err := a.tokens.IsAccessTokenBlacklisted(ctx, claims.ID)
		if err != nil {
			a.log.Warn().Err(err).Msg("denylist lookup failed")
		}
		if revoked {
			return errTokenRevoked
		}

		// Role and active flag come from storage, not from the token.
		user, err := a.users.FindActiveByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errUserInactive
			}
			return err
		}

		SetIdentity(c, user, claims)
		return next(c)
	}
}

// RequireRole allows the request only when the resolved user holds one of roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return errTokenInvalid
			}
			if !allowed[user.Role] {
				return errForbiddenRole
			}
			return next(c)
		}
	}
}

// SetIdentity attaches the authenticated user and its session claims.
func SetIdentity(c echo.Context, user *model.User, claims *auth.Claims) {
	c.Set(userContextKey, user)
	c.Set(claimsContextKey, claims)
}

// CurrentUser returns the user resolved by the auth gate.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userContextKey).(*model.User)
	return user, ok && user != nil
}

// CurrentClaims returns the verified session claims.
func CurrentClaims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}
