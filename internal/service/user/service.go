package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"freight-cost-approval/internal/domain"
	"freight-cost-approval/internal/repository"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

type Service interface {
	Create(ctx context.Context, actor *domain.User, input domain.CreateUserInput) (*domain.User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, role *domain.UserRole) ([]domain.User, error)
}

type service struct {
	userRepo repository.UserRepository
	hashCost int
}

func NewService(userRepo repository.UserRepository) Service {
	return &service{userRepo: userRepo, hashCost: bcrypt.DefaultCost}
}

// Create registers an identity. Only admins provision accounts.
func (s *service) Create(ctx context.Context, actor *domain.User, input domain.CreateUserInput) (*domain.User, error) {
	if actor == nil || !actor.HasRole(domain.RoleAdmin) {
		return nil, domain.ErrUnauthorized
	}
	if !domain.UserRole(input.Role).IsValid() {
		return nil, domain.NewValidationError(domain.FieldErrors{"role": "unknown role"})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	var carrier *string
	if input.Carrier != nil {
		if c := strings.TrimSpace(*input.Carrier); c != "" {
			carrier = &c
		}
	}

	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     strings.TrimSpace(input.FullName),
		Role:         input.Role,
		Carrier:      carrier,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List returns every identity, or only those holding role when given.
func (s *service) List(ctx context.Context, role *domain.UserRole) ([]domain.User, error) {
	if role != nil {
		return s.userRepo.GetByRoles(ctx, []domain.UserRole{*role})
	}
	return s.userRepo.GetAllUsers(ctx)
}
