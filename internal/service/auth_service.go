package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/francescogabrieli/budget-sociale/internal/domain/entity"
	"github.com/francescogabrieli/budget-sociale/internal/domain/repository"
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
	"github.com/francescogabrieli/budget-sociale/internal/logger"
	"github.com/francescogabrieli/budget-sociale/internal/pkg/apperror"
	"github.com/francescogabrieli/budget-sociale/internal/validation"
)

// AuthService выдаёт токены участникам и заводит учётные записи.
type AuthService struct {
	users        repository.UserRepository
	tokenManager *TokenManager
}

// CreateUserInput данные новой учётной записи.
type CreateUserInput struct {
	Username string
	Name     string
	Surname  string
	Role     string
	Password string
}

// LoginResult возвращает пользователя и выданный токен.
type LoginResult struct {
	User  *entity.User
	Token *AccessToken
}

func NewAuthService(users repository.UserRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		users:        users,
		tokenManager: tokenManager,
	}
}

// CreateUser создаёт пользователя. Используется CLI, публичной регистрации нет.
func (s *AuthService) CreateUser(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidatePersonName("имя", in.Name); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidatePersonName("фамилия", in.Surname); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	role, err := valueobject.NewRole(in.Role)
	if err != nil {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	user := &entity.User{
		Username:     in.Username,
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		Role:         role,
		PasswordHash: string(passHash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).WithField("role", user.Role).Info("auth: пользователь создан")
	return user, nil
}

// Login проверяет учётные данные и возвращает токен.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrUserNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.WithField("user_id", user.ID).Warn("auth: неверный пароль")
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.tokenManager.Generate(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токен")
	}

	return &LoginResult{User: user, Token: token}, nil
}

// Me возвращает пользователя по id из токена.
func (s *AuthService) Me(ctx context.Context, userID int64) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}
