package authz

import (
	"fmt"
	"strings"

	"github.com/jhoicas/sweets-api/internal/domain"
	"github.com/jhoicas/sweets-api/internal/domain/entity"
	"github.com/jhoicas/sweets-api/pkg/jwt"
)

// Operation identifica una operación protegida.
type Operation string

// Operaciones del inventario.
const (
	OpListSweets   Operation = "list_sweets"
	OpGetSweet     Operation = "get_sweet"
	OpAddSweet     Operation = "add_sweet"
	OpPurchase     Operation = "purchase_sweet"
	OpRestockSweet Operation = "restock_sweet"
)

// Requirement predicado de rol que una operación exige.
type Requirement func(entity.Role) bool

// AnyRole admite a cualquier identidad autenticada.
func AnyRole(entity.Role) bool { return true }

// OnlyRoles admite solo los roles listados.
func OnlyRoles(roles ...entity.Role) Requirement {
	return func(r entity.Role) bool {
		for _, allowed := range roles {
			if r == allowed {
				return true
			}
		}
		return false
	}
}

// DefaultPolicy tabla operación → rol requerido. Roles u operaciones nuevas se agregan aquí.
func DefaultPolicy() map[Operation]Requirement {
	return map[Operation]Requirement{
		OpListSweets:   AnyRole,
		OpGetSweet:     AnyRole,
		OpPurchase:     AnyRole,
		OpAddSweet:     OnlyRoles(entity.RoleAdmin),
		OpRestockSweet: OnlyRoles(entity.RoleAdmin),
	}
}

// Decoder valida un token crudo. Lo implementa *jwt.Codec.
type Decoder interface {
	Decode(token string) (*jwt.Assertion, error)
}

// Principal identidad autorizada para una petición.
type Principal struct {
	SubjectID string
	Role      entity.Role
	Assertion *jwt.Assertion
}

// Gate decide por petición, sin estado: Unauthenticated → Authenticated → Authorized | Forbidden.
// Nunca consulta el inventario.
type Gate struct {
	decoder Decoder
	policy  map[Operation]Requirement
}

// NewGate construye el gate. policy nil usa DefaultPolicy.
func NewGate(decoder Decoder, policy map[Operation]Requirement) *Gate {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Gate{decoder: decoder, policy: policy}
}

// Authorize valida el token y el rol para op.
// Errores: domain.ErrUnauthenticated (envuelve la causa del codec) o domain.ErrForbidden.
func (g *Gate) Authorize(rawToken string, op Operation) (*Principal, error) {
	p, err := g.Authenticate(rawToken)
	if err != nil {
		return nil, err
	}
	req, ok := g.policy[op]
	if !ok || !req(p.Role) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// Authenticate solo verifica el token (estado Authenticated), sin revisar rol.
func (g *Gate) Authenticate(rawToken string) (*Principal, error) {
	if rawToken == "" {
		return nil, domain.ErrUnauthenticated
	}
	a, err := g.decoder.Decode(rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	role, err := entity.ParseRole(a.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", domain.ErrUnauthenticated, jwt.ErrMalformed, err)
	}
	return &Principal{SubjectID: a.SubjectID, Role: role, Assertion: a}, nil
}

// BearerToken extrae el token de un header "Authorization: Bearer <token>".
// Devuelve "" si el header falta o no tiene ese formato.
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
