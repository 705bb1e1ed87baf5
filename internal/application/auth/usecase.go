package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sweets-api/internal/application/dto"
	"github.com/jhoicas/sweets-api/internal/domain"
	"github.com/jhoicas/sweets-api/internal/domain/entity"
	"github.com/jhoicas/sweets-api/internal/domain/repository"
	"github.com/jhoicas/sweets-api/pkg/logger"
)

// MinPasswordLength longitud mínima de password en el registro y en el admin inicial.
const MinPasswordLength = 8

// TokenIssuer emite el token de identidad tras registro o login. Lo implementa *jwt.Codec.
type TokenIssuer interface {
	Issue(subjectID, role string) (string, error)
}

// AuthUseCase verificador de credenciales: registro, login y alta del admin inicial.
type AuthUseCase struct {
	users  repository.UserRepository
	tokens TokenIssuer
	cost   int
	log    *logger.Logger

	// dummyHash se compara cuando el email no existe para que ambos fallos tarden lo mismo.
	dummyHash []byte
}

// NewAuthUseCase construye el caso de uso de auth. cost es el costo bcrypt.
func NewAuthUseCase(users repository.UserRepository, tokens TokenIssuer, cost int, log *logger.Logger) (*AuthUseCase, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("sweets-api/dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("auth: generar hash de referencia: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		users:     users,
		tokens:    tokens,
		cost:      cost,
		log:       log.Named("auth"),
		dummyHash: dummy,
	}, nil
}

// Register crea un usuario con rol USER y devuelve su token.
// Devuelve ErrDuplicateIdentity si el email ya existe; el registro existente no se toca.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}

	user, err := uc.create(ctx, email, in.Password, entity.RoleUser)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("usuario registrado")
	return uc.respond(user)
}

// Login verifica email/password y emite un token.
// Email inexistente y password incorrecto devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.Verify(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return uc.respond(user)
}

// Verify comprueba que el secret corresponde a la credencial almacenada.
func (uc *AuthUseCase) Verify(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := uc.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(uc.dummyHash, []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin crea una identidad ADMIN si el email no existe. Si ya existe no hace nada,
// aunque su rol sea USER: los roles no se modifican por ninguna vía expuesta.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password del admin debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	user, err := uc.create(ctx, email, password, entity.RoleAdmin)
	if errors.Is(err, domain.ErrDuplicateIdentity) {
		uc.log.Debug().Str("email", email).Msg("admin ya existe")
		return nil
	}
	if err != nil {
		return err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("admin inicial creado")
	return nil
}

func (uc *AuthUseCase) create(ctx context.Context, email, password string, role entity.Role) (*entity.User, error) {
	existing, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateIdentity
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password demasiado largo", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("auth: hashear password: %w", err)
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	// El repositorio vuelve a verificar unicidad: dos registros simultáneos no crean dos usuarios.
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("auth: crear usuario: %w", err)
	}
	return user, nil
}

func (uc *AuthUseCase) respond(user *entity.User) (*dto.AuthResponse, error) {
	token, err := uc.tokens.Issue(user.ID, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("auth: emitir token: %w", err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email requerido", domain.ErrInvalidInput)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return email, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}
