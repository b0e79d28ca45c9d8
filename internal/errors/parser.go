package errors

import (
	"errors"
	"net/http"

	"github.com/ikkim/edubooks-storefront/internal/app/repository"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/internal/storage"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
)

// ErrorInfo is the response an error maps to
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

type mapping struct {
	target error
	status int
	code   string
	key    string
}

// Local validation and state errors. First match wins.
var localErrors = []mapping{
	{service.ErrLoginRequired, http.StatusUnauthorized, AuthUnauthorized, i18n.ProfilePleaseLogin},
	{service.ErrMissingFields, http.StatusBadRequest, ValidationRequired, i18n.AuthFillRequired},
	{service.ErrPasswordMismatch, http.StatusBadRequest, AuthPasswordMismatch, i18n.AuthPasswordMismatch},
	{service.ErrPasswordTooShort, http.StatusBadRequest, AuthPasswordTooShort, i18n.AuthPasswordTooShort},
	{service.ErrCodeIncomplete, http.StatusBadRequest, AuthCodeIncomplete, i18n.AuthCodeIncomplete},
	{service.ErrResendTooSoon, http.StatusTooManyRequests, AuthResendTooSoon, i18n.AuthResendWait},
	{service.ErrMissingLoginToken, http.StatusBadGateway, UpstreamBadPayload, i18n.AuthLoginFailed},
	{service.ErrQuantityRequired, http.StatusBadRequest, CartQuantityRequired, i18n.ShelfQuantityRequired},
	{service.ErrCheckoutIncomplete, http.StatusBadRequest, ValidationRequired, i18n.OrdersFillRequired},
	{service.ErrOrderNotCancellable, http.StatusConflict, OrderNotCancellable, i18n.OrdersNotCancellable},
	{service.ErrContactIncomplete, http.StatusBadRequest, ValidationRequired, i18n.ContactFillRequired},
	{service.ErrUnknownSection, http.StatusNotFound, ResourceNotFound, i18n.ErrorUnexpected},
	{service.ErrUnknownSettingsPage, http.StatusNotFound, ResourceNotFound, i18n.ErrorUnexpected},
	{service.ErrProductNotFound, http.StatusNotFound, ResourceNotFound, i18n.ErrorUnexpected},
	{service.ErrInvalidTheme, http.StatusBadRequest, ValidationInvalidInput, i18n.ErrorUnexpected},
	{storage.ErrArchiveDisabled, http.StatusServiceUnavailable, ExportArchiveDisabled, i18n.OrdersExportFailed},
	{storage.ErrArchiveUpload, http.StatusBadGateway, ExportArchiveFailed, i18n.OrdersExportFailed},
}

// ParseError turns err into a status, a code and a message in lang. Remote
// API messages are passed through verbatim when present.
func ParseError(err error, lang string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: i18n.T(lang, i18n.ErrorUnexpected),
		}
	}

	for _, m := range localErrors {
		if errors.Is(err, m.target) {
			return ErrorInfo{Status: m.status, Code: m.code, Message: i18n.T(lang, m.key)}
		}
	}

	serverMessage := storeapi.MessageOf(err)
	var apiErr *storeapi.APIError
	errors.As(err, &apiErr)

	switch {
	case storeapi.IsCanceled(err):
		return ErrorInfo{
			Status:  http.StatusRequestTimeout,
			Code:    UpstreamCanceled,
			Message: i18n.T(lang, i18n.ErrorNetwork),
		}
	case errors.Is(err, storeapi.ErrUnauthorized):
		return ErrorInfo{
			Status:  http.StatusUnauthorized,
			Code:    AuthUnauthorized,
			Message: i18n.Or(serverMessage, lang, i18n.ProfilePleaseLogin),
		}
	case errors.Is(err, storeapi.ErrRejected):
		return ErrorInfo{
			Status:  http.StatusUnprocessableEntity,
			Code:    UpstreamRejected,
			Message: i18n.Or(serverMessage, lang, i18n.ErrorUnexpected),
		}
	case errors.Is(err, storeapi.ErrHTTPStatus):
		status := http.StatusBadGateway
		if apiErr != nil && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			status = apiErr.StatusCode
		}
		return ErrorInfo{
			Status:  status,
			Code:    UpstreamStatus,
			Message: i18n.Or(serverMessage, lang, i18n.ErrorUnexpected),
		}
	case errors.Is(err, storeapi.ErrNetwork):
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    UpstreamUnreachable,
			Message: i18n.T(lang, i18n.ErrorNetwork),
		}
	case errors.Is(err, storeapi.ErrDecode):
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    UpstreamBadPayload,
			Message: i18n.T(lang, i18n.ErrorUnexpected),
		}
	case errors.Is(err, repository.ErrKeyNotFound):
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalStorageError,
			Message: i18n.T(lang, i18n.ErrorUnexpected),
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: i18n.T(lang, i18n.ErrorUnexpected),
	}
}
