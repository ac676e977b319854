// Package profile содержит бизнес-логику работы с профилем пользователя:
// сохранение настроек по умолчанию и чтение профиля с кешированием.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/worklog-ledger/internal/models"
	"github.com/magabrotheeeer/worklog-ledger/internal/services/access"
	"github.com/magabrotheeeer/worklog-ledger/internal/storage/repository"
)

// ErrNegativeCents возвращается при попытке сохранить отрицательные суммы.
var ErrNegativeCents = errors.New("cents values must not be negative")

// ProfileRepository описывает операции хранилища над профилями.
type ProfileRepository interface {
	// SaveProfile создаёт или полностью перезаписывает профиль.
	SaveProfile(ctx context.Context, profile models.UserProfile) error
	// GetProfile возвращает профиль или ошибку "не найден".
	GetProfile(ctx context.Context, username string) (*models.UserProfile, error)
}

// AdminChecker сообщает, является ли пользователь администратором.
type AdminChecker interface {
	IsAdmin(ctx context.Context, username string) (bool, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с профилями, включая кеширование.
type Service struct {
	repo   ProfileRepository
	admins AdminChecker
	cache  Cache
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ProfileRepository, admins AdminChecker, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		admins: admins,
		cache:  cache,
		log:    log,
	}
}

func cacheKey(username string) string {
	return fmt.Sprintf("profile:%s", username)
}

// Save атомарно сохраняет все три поля профиля вызывающего.
// Отрицательные суммы отклоняются до обращения к хранилищу,
// поэтому неуспешная валидация не меняет сохранённое состояние.
func (s *Service) Save(ctx context.Context, username string, req models.DummyProfile) error {
	if req.DefaultHourlyRateCents < 0 || req.DefaultTransportAllowanceCents < 0 {
		return ErrNegativeCents
	}

	profile := models.UserProfile{
		Username:                       username,
		Name:                           req.Name,
		DefaultHourlyRateCents:         req.DefaultHourlyRateCents,
		DefaultTransportAllowanceCents: req.DefaultTransportAllowanceCents,
	}
	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		return err
	}
	s.log.Info("profile saved", slog.String("username", username))

	key := cacheKey(username)
	if err := s.cache.Set(key, profile, time.Hour); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", key), slog.Any("err", err))
	}
	return nil
}

// Get возвращает профиль вызывающего или (nil, nil), если профиль
// ещё не создан: отсутствие профиля — валидное состояние "нужна настройка",
// значения по умолчанию не выдумываются.
func (s *Service) Get(ctx context.Context, username string) (*models.UserProfile, error) {
	var cached models.UserProfile
	key := cacheKey(username)
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return &cached, nil
	}

	result, err := s.repo.GetProfile(ctx, username)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, result, time.Hour); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// GetFor возвращает профиль пользователя target. Чтение чужого профиля
// разрешено только администратору; чтение собственного — любому пользователю.
func (s *Service) GetFor(ctx context.Context, caller, target string) (*models.UserProfile, error) {
	if caller != target {
		isAdmin, err := s.admins.IsAdmin(ctx, caller)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			return nil, access.ErrUnauthorized
		}
	}
	return s.Get(ctx, target)
}
