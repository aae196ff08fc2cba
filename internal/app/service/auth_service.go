package service

import (
	"context"
	"fmt"

	"codearena/internal/common"
	"codearena/internal/common/security"
	"codearena/internal/domain/model"
	"codearena/internal/domain/repository"
)

type AuthService struct {
	userRepo repository.UserRepository
	authRepo repository.AuthenticationDetailRepository
	hasher   security.Hasher
}

func NewAuthService(
	userRepo repository.UserRepository,
	authRepo repository.AuthenticationDetailRepository,
	hasher security.Hasher,
) *AuthService {
	return &AuthService{userRepo: userRepo, authRepo: authRepo, hasher: hasher}
}

type RegisterRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Password == "" {
		return nil, fmt.Errorf("password is required: %w", common.ErrBadRequest)
	}
	user, err := s.userRepo.Create(ctx, model.UserBase{
		Username:    req.Username,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return nil, err
	}
	// the repository hashes the value before persisting it
	_, err = s.authRepo.Add(ctx, model.AuthenticationDetailBase{
		Username: user.Username,
		Method:   model.MethodPassword,
		Value:    req.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}
	token, err := security.GenerateToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}
	detail, err := s.authRepo.Get(ctx, req.Username, model.MethodPassword)
	if err != nil {
		return nil, err
	}
	// generic rejection for unknown user and wrong password alike
	if detail == nil || !s.hasher.Compare(detail.Value, req.Password) {
		return nil, common.ErrUnauthorized
	}
	user, err := s.userRepo.Get(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUnauthorized
	}
	token, err := security.GenerateToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResponse{User: user, Token: token}, nil
}
