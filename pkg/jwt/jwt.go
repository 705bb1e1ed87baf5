package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL vigencia de todo token emitido.
const TokenTTL = time.Hour

// Errores de decodificación. Los tres terminan en 401 pero se distinguen para diagnóstico.
var (
	ErrEmptySecret      = errors.New("jwt: secret vacío")
	ErrMalformed        = errors.New("jwt: token malformado")
	ErrSignatureInvalid = errors.New("jwt: firma inválida")
	ErrExpired          = errors.New("jwt: token expirado")
)

// Claims incluye los claims estándar JWT más el rol.
// Se añade Role para que el middleware RBAC pueda tomar decisiones sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Assertion identidad verificada extraída de un token válido.
type Assertion struct {
	SubjectID string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec emite y valida tokens HS256 con un secret fijo durante toda la vida del proceso.
type Codec struct {
	secret []byte
	issuer string
	roles  map[string]struct{}
	now    func() time.Time
}

// Option configura el Codec.
type Option func(*Codec)

// WithClock reemplaza el reloj (tests de expiración).
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithRoles restringe los roles aceptados al decodificar; un rol fuera del conjunto es ErrMalformed.
func WithRoles(roles ...string) Option {
	return func(c *Codec) {
		c.roles = make(map[string]struct{}, len(roles))
		for _, r := range roles {
			c.roles[r] = struct{}{}
		}
	}
}

// NewCodec construye el codec. Falla si el secret está vacío (configuración de firma inválida).
func NewCodec(secret, issuer string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	c := &Codec{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue genera un token firmado con subject y role que expira exactamente TokenTTL después de emitido.
func (c *Codec) Issue(subjectID, role string) (string, error) {
	if subjectID == "" || role == "" {
		return "", fmt.Errorf("jwt: subject y role son requeridos")
	}
	now := c.now().Truncate(time.Second)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: firmar token: %w", err)
	}
	return signed, nil
}

// Decode valida firma y expiración y devuelve la identidad del token.
// La firma se verifica antes que los claims: un token expirado con firma válida da ErrExpired.
func (c *Codec) Decode(tokenString string) (*Assertion, error) {
	if tokenString == "" {
		return nil, ErrMalformed
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return nil, classify(err)
	}
	if claims.Subject == "" || claims.Role == "" || claims.IssuedAt == nil {
		return nil, ErrMalformed
	}
	if c.roles != nil {
		if _, ok := c.roles[claims.Role]; !ok {
			return nil, fmt.Errorf("%w: rol %q desconocido", ErrMalformed, claims.Role)
		}
	}
	return &Assertion{
		SubjectID: claims.Subject,
		Role:      claims.Role,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
