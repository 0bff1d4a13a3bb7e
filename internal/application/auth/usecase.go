package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ProvisionInput datos para dar de alta un usuario operador.
type ProvisionInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Role        string
}

// AuthUseCase alta de usuarios y emisión de tokens para actores ya existentes.
// El login interactivo queda fuera del servicio: los tokens los emite el proveedor de identidad
// (cmd/seed en desarrollo).
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// ProvisionUser hashea la contraseña con bcrypt y persiste el usuario. Si el email ya existe devuelve ErrDuplicate.
func (uc *AuthUseCase) ProvisionUser(ctx context.Context, in ProvisionInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.NewValidation("email and password are required")
	}
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role == "" {
		role = entity.RoleManager
	}
	if !entity.ValidRole(role) {
		return nil, domain.NewValidation("invalid role: %q", in.Role)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %q: %w", email, domain.ErrDuplicate)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		PhoneNumber:  in.PhoneNumber,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueToken genera un JWT para un usuario existente tras verificar su contraseña.
func (uc *AuthUseCase) IssueToken(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Bootstrap garantiza que el usuario exista (lo crea o reutiliza si el email ya está registrado)
// y le emite un token. Lo usan cmd/seed y el arranque con store en memoria.
func (uc *AuthUseCase) Bootstrap(ctx context.Context, in ProvisionInput) (string, *entity.User, error) {
	if _, err := uc.ProvisionUser(ctx, in); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return "", nil, err
	}
	return uc.IssueToken(ctx, in.Email, in.Password)
}
