package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/app/repository"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
)

var (
	ErrInvalidTheme = errors.New("theme must be light or dark")
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// LanguageListener is called after the stored language changes
type LanguageListener func(ctx context.Context, lang string)

// SessionService owns the persisted client keys. Presence of a token is the
// only login signal; it is never validated locally.
type SessionService interface {
	StartSession(ctx context.Context) error
	Token(ctx context.Context) string
	IsLoggedIn(ctx context.Context) bool
	SaveLogin(ctx context.Context, token string, user *model.User) error
	ClearLogin(ctx context.Context) error
	User(ctx context.Context) *model.User
	Language(ctx context.Context) string
	SetLanguage(ctx context.Context, lang string) (string, error)
	Theme(ctx context.Context) string
	SetTheme(ctx context.Context, theme string) error
	ShouldShowLoader(ctx context.Context) bool
	OnLanguageChange(listener LanguageListener)
}

type sessionService struct {
	storage         repository.StorageRepository
	defaultLanguage string

	mu        sync.RWMutex
	listeners []LanguageListener
}

func NewSessionService(storage repository.StorageRepository, defaultLanguage string) SessionService {
	return &sessionService{
		storage:         storage,
		defaultLanguage: i18n.Negotiate(i18n.English, defaultLanguage),
	}
}

// StartSession wipes the session scope, like a fresh browser tab.
func (s *sessionService) StartSession(ctx context.Context) error {
	if err := s.storage.ClearScope(ctx, model.ScopeSession); err != nil {
		logger.Error("Failed to reset session storage", err)
		return err
	}
	return nil
}

func (s *sessionService) get(ctx context.Context, scope model.StorageScope, key string) string {
	value, err := s.storage.Get(ctx, scope, key)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			logger.Warn("Failed to read stored key", map[string]interface{}{
				"scope": scope,
				"key":   key,
				"error": err.Error(),
			})
		}
		return ""
	}
	return value
}

func (s *sessionService) Token(ctx context.Context) string {
	return s.get(ctx, model.ScopeLocal, model.KeyToken)
}

func (s *sessionService) IsLoggedIn(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

func (s *sessionService) SaveLogin(ctx context.Context, token string, user *model.User) error {
	if err := s.storage.Set(ctx, model.ScopeLocal, model.KeyToken, token); err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, model.ScopeLocal, model.KeyUser, string(data)); err != nil {
		return err
	}

	logger.Info("Login stored", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

func (s *sessionService) ClearLogin(ctx context.Context) error {
	if err := s.storage.Delete(ctx, model.ScopeLocal, model.KeyToken); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, model.ScopeLocal, model.KeyUser); err != nil {
		return err
	}
	logger.Info("Login cleared")
	return nil
}

func (s *sessionService) User(ctx context.Context) *model.User {
	raw := s.get(ctx, model.ScopeLocal, model.KeyUser)
	if raw == "" {
		return nil
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logger.Warn("Stored user is not valid JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return &user
}

func (s *sessionService) Language(ctx context.Context) string {
	return i18n.Negotiate(s.defaultLanguage, s.get(ctx, model.ScopeLocal, model.KeyLanguage))
}

// SetLanguage stores the negotiated language and notifies listeners when it changed.
func (s *sessionService) SetLanguage(ctx context.Context, lang string) (string, error) {
	previous := s.Language(ctx)
	negotiated := i18n.Negotiate(s.defaultLanguage, lang)

	if err := s.storage.Set(ctx, model.ScopeLocal, model.KeyLanguage, negotiated); err != nil {
		return previous, err
	}
	if negotiated == previous {
		return negotiated, nil
	}

	logger.Info("Language changed", map[string]interface{}{
		"from": previous,
		"to":   negotiated,
	})

	s.mu.RLock()
	listeners := append([]LanguageListener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, listener := range listeners {
		listener(ctx, negotiated)
	}
	return negotiated, nil
}

func (s *sessionService) OnLanguageChange(listener LanguageListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *sessionService) Theme(ctx context.Context) string {
	if theme := s.get(ctx, model.ScopeLocal, model.KeyTheme); theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (s *sessionService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return ErrInvalidTheme
	}
	return s.storage.Set(ctx, model.ScopeLocal, model.KeyTheme, theme)
}

// ShouldShowLoader is true exactly once per session.
func (s *sessionService) ShouldShowLoader(ctx context.Context) bool {
	if s.get(ctx, model.ScopeSession, model.KeyHasShownLoader) == "true" {
		return false
	}
	if err := s.storage.Set(ctx, model.ScopeSession, model.KeyHasShownLoader, "true"); err != nil {
		logger.Warn("Failed to store loader flag", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return true
}
