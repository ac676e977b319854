// Package access содержит бизнес-логику контроля доступа:
// определение эффективной роли вызывающего, первичное назначение
// администратора и переназначение ролей администратором.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/worklog-ledger/internal/models"
	"github.com/magabrotheeeer/worklog-ledger/internal/storage/repository"
)

var (
	// ErrUnauthorized возвращается, когда роль вызывающего недостаточна для операции.
	ErrUnauthorized = errors.New("caller role does not permit this operation")
	// ErrUnknownRole возвращается при попытке назначить неизвестную роль.
	ErrUnknownRole = errors.New("unknown role")
)

// RoleRepository описывает операции хранилища над ролями пользователей.
type RoleRepository interface {
	// GetUserRole возвращает роль пользователя или репозиторную ошибку "не найден".
	GetUserRole(ctx context.Context, username string) (string, error)
	// UpdateUserRole назначает пользователю новую роль.
	UpdateUserRole(ctx context.Context, username, role string) error
	// EnsureFirstAdmin атомарно назначает первого администратора.
	// Возвращает true, если назначение произошло в этом вызове.
	EnsureFirstAdmin(ctx context.Context, username string) (bool, error)
}

// Service реализует контроль доступа поверх хранилища ролей.
type Service struct {
	repo RoleRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo RoleRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Initialize выполняет идемпотентную первичную настройку доступа:
// вызывающий становится администратором, только если администраторов
// ещё нет. Повторные вызовы ничего не перезаписывают.
func (s *Service) Initialize(ctx context.Context, caller string) (bool, error) {
	promoted, err := s.repo.EnsureFirstAdmin(ctx, caller)
	if err != nil {
		return false, err
	}
	if promoted {
		s.log.Info("bootstrap admin assigned", slog.String("username", caller))
	}
	return promoted, nil
}

// AssignRole переназначает роль пользователя target.
// Операция доступна только администратору.
func (s *Service) AssignRole(ctx context.Context, caller, target, role string) error {
	if !models.ValidRole(role) {
		return fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}

	isAdmin, err := s.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrUnauthorized
	}

	if err := s.repo.UpdateUserRole(ctx, target, role); err != nil {
		return err
	}
	s.log.Info("role assigned",
		slog.String("target", target), slog.String("role", role))
	return nil
}

// Role возвращает эффективную роль вызывающего.
// Неизвестный хранилищу вызывающий считается гостем; метод не возвращает
// ошибку "не найден" — отсутствие назначения само по себе валидно.
func (s *Service) Role(ctx context.Context, username string) (string, error) {
	role, err := s.repo.GetUserRole(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return models.RoleGuest, nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// IsAdmin сообщает, является ли пользователь администратором.
func (s *Service) IsAdmin(ctx context.Context, username string) (bool, error) {
	role, err := s.Role(ctx, username)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

// RequireUser проверяет, что роль вызывающего не ниже user.
// Гости отклоняются от всех операций над профилями и записями.
func (s *Service) RequireUser(ctx context.Context, username string) error {
	role, err := s.Role(ctx, username)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return ErrUnauthorized
	}
	return nil
}
