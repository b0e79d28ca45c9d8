package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
)

var (
	ErrUnknownSettingsPage = errors.New("unknown settings page")
	ErrContactIncomplete   = errors.New("name and message are required")
)

// Content pages served by /settings/<page>.
const (
	PageFooter    = "footer"
	PageAboutUs   = "about-us"
	PageFAQs      = "faqs"
	PageContactUs = "contact-us"
	PageGrades    = "grades"
	PageCities    = "cities"
)

var settingsPages = map[string]bool{
	PageFooter:    true,
	PageAboutUs:   true,
	PageFAQs:      true,
	PageContactUs: true,
	PageGrades:    true,
	PageCities:    true,
}

// SettingsService passes marketing content and dropdown data through as
// raw JSON in the session language.
type SettingsService interface {
	Page(ctx context.Context, page string) (json.RawMessage, error)
	Sections(ctx context.Context, gradeID uint) (json.RawMessage, error)
	Regions(ctx context.Context, cityID uint) (json.RawMessage, error)
	SendContact(ctx context.Context, msg model.ContactMessage) (string, error)
}

type settingsService struct {
	api           StoreAPI
	session       SessionService
	notifications NotificationService
}

func NewSettingsService(api StoreAPI, session SessionService, notifications NotificationService) SettingsService {
	return &settingsService{
		api:           api,
		session:       session,
		notifications: notifications,
	}
}

func (s *settingsService) raw(ctx context.Context, path string) (json.RawMessage, error) {
	env, err := s.api.Get(ctx, path, nil, storeapi.WithLanguage(s.session.Language(ctx)))
	if err != nil {
		logger.Warn("Failed to load settings", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil, err
	}
	if !env.HasData() {
		return json.RawMessage("null"), nil
	}
	return env.Data, nil
}

func (s *settingsService) Page(ctx context.Context, page string) (json.RawMessage, error) {
	if !settingsPages[page] {
		return nil, ErrUnknownSettingsPage
	}
	return s.raw(ctx, "/settings/"+page)
}

func (s *settingsService) Sections(ctx context.Context, gradeID uint) (json.RawMessage, error) {
	return s.raw(ctx, "/settings/sections/"+strconv.FormatUint(uint64(gradeID), 10))
}

func (s *settingsService) Regions(ctx context.Context, cityID uint) (json.RawMessage, error) {
	return s.raw(ctx, "/settings/regions/"+strconv.FormatUint(uint64(cityID), 10))
}

// SendContact posts the contact form to /contact/send-message and retries
// once against /settings/contact-us when that fails.
func (s *settingsService) SendContact(ctx context.Context, msg model.ContactMessage) (string, error) {
	lang := s.session.Language(ctx)
	if strings.TrimSpace(msg.Name) == "" || strings.TrimSpace(msg.Message) == "" {
		s.notifications.Error("", i18n.T(lang, i18n.ContactFillRequired))
		return "", ErrContactIncomplete
	}

	form := func() *storeapi.Form {
		return storeapi.NewForm().
			Set("name", strings.TrimSpace(msg.Name)).
			SetIfNotEmpty("email", msg.Email).
			SetIfNotEmpty("phone", msg.Phone).
			SetIfNotEmpty("subject", msg.Subject).
			Set("message", strings.TrimSpace(msg.Message))
	}
	opts := requestOptions(ctx, s.session)

	env, err := s.api.PostForm(ctx, "/contact/send-message", form(), opts...)
	if err != nil {
		if storeapi.IsCanceled(err) {
			return "", err
		}
		logger.Warn("Contact endpoint failed, trying fallback", map[string]interface{}{
			"error": err.Error(),
		})
		env, err = s.api.PostForm(ctx, "/settings/contact-us", form(), opts...)
	}
	if err != nil {
		s.notifications.Error("", userMessage(err, lang, i18n.ContactFailed))
		return "", err
	}

	text := i18n.Or(env.Message, lang, i18n.ContactSent)
	s.notifications.Success("", text)
	return text, nil
}
