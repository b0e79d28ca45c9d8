package service

import (
	"context"
	"net/url"

	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
)

// StoreAPI is the part of *storeapi.Client the services depend on
type StoreAPI interface {
	Get(ctx context.Context, path string, query url.Values, opts ...storeapi.RequestOption) (*storeapi.Envelope, error)
	PostForm(ctx context.Context, path string, form *storeapi.Form, opts ...storeapi.RequestOption) (*storeapi.Envelope, error)
	PostJSON(ctx context.Context, path string, payload interface{}, opts ...storeapi.RequestOption) (*storeapi.Envelope, error)
}

// requestOptions attaches the stored token (if any) and the current language.
func requestOptions(ctx context.Context, session SessionService) []storeapi.RequestOption {
	return []storeapi.RequestOption{
		storeapi.WithBearer(session.Token(ctx)),
		storeapi.WithLanguage(session.Language(ctx)),
	}
}

// userMessage picks the server message of err, or the localized fallback.
func userMessage(err error, lang, fallbackKey string) string {
	return i18n.Or(storeapi.MessageOf(err), lang, fallbackKey)
}
