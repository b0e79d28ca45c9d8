package service

import (
	"context"
	"testing"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_LoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t)

	assert.False(t, session.IsLoggedIn(ctx))
	assert.Nil(t, session.User(ctx))

	require.NoError(t, session.SaveLogin(ctx, "tok", &model.User{ID: 7, Name: "Mona", Phone: "0100"}))

	assert.True(t, session.IsLoggedIn(ctx))
	assert.Equal(t, "tok", session.Token(ctx))
	user := session.User(ctx)
	require.NotNil(t, user)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "Mona", user.Name)

	require.NoError(t, session.ClearLogin(ctx))
	assert.False(t, session.IsLoggedIn(ctx))
	assert.Nil(t, session.User(ctx))
}

func TestSessionService_Language(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t)

	assert.Equal(t, "en", session.Language(ctx))

	lang, err := session.SetLanguage(ctx, "ar-EG")
	require.NoError(t, err)
	assert.Equal(t, "ar", lang)
	assert.Equal(t, "ar", session.Language(ctx))

	lang, err = session.SetLanguage(ctx, "klingon")
	require.NoError(t, err)
	assert.Equal(t, "en", lang)
}

func TestSessionService_LanguageListeners(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t)

	var changes []string
	session.OnLanguageChange(func(_ context.Context, lang string) {
		changes = append(changes, lang)
	})

	_, err := session.SetLanguage(ctx, "ar")
	require.NoError(t, err)
	_, err = session.SetLanguage(ctx, "ar")
	require.NoError(t, err)
	_, err = session.SetLanguage(ctx, "en")
	require.NoError(t, err)

	assert.Equal(t, []string{"ar", "en"}, changes)
}

func TestSessionService_Theme(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t)

	assert.Equal(t, ThemeLight, session.Theme(ctx))
	require.NoError(t, session.SetTheme(ctx, ThemeDark))
	assert.Equal(t, ThemeDark, session.Theme(ctx))
	assert.ErrorIs(t, session.SetTheme(ctx, "neon"), ErrInvalidTheme)
	assert.Equal(t, ThemeDark, session.Theme(ctx))
}

func TestSessionService_LoaderOncePerSession(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)
	session := NewSessionService(storage, "en")

	assert.True(t, session.ShouldShowLoader(ctx))
	assert.False(t, session.ShouldShowLoader(ctx))

	// A restart begins a new session but keeps local keys.
	require.NoError(t, session.SaveLogin(ctx, "tok", nil))
	restarted := NewSessionService(storage, "en")
	require.NoError(t, restarted.StartSession(ctx))

	assert.True(t, restarted.ShouldShowLoader(ctx))
	assert.Equal(t, "tok", restarted.Token(ctx))
}
