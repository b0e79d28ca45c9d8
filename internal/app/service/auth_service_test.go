package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	auth          AuthService
	api           *fakeAPI
	session       SessionService
	notifications NotificationService
	now           *time.Time
}

func setupAuthTest(t *testing.T) authFixture {
	api := newFakeAPI(t)
	api.reply(http.MethodGet, "/carts", http.StatusOK, `{"status":true,"data":[]}`)
	session := newTestSession(t)
	notifications := NewNotificationService(nil)
	cart := NewCartService(api.client(), session, notifications)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	cooldown := NewCooldown(time.Minute, func() time.Time { return now })

	return authFixture{
		auth:          NewAuthService(api.client(), session, cart, notifications, 6, cooldown),
		api:           api,
		session:       session,
		notifications: notifications,
		now:           &now,
	}
}

func lastNotification(t *testing.T, notifications NotificationService) model.Notification {
	recent := notifications.Recent()
	require.NotEmpty(t, recent)
	return recent[len(recent)-1]
}

func TestAuthService_Login_Success(t *testing.T) {
	f := setupAuthTest(t)
	f.api.reply(http.MethodPost, "/auth/login", http.StatusOK,
		`{"status":"success","message":"Welcome","data":{"token":"abc","user":{"id":7,"name":"Mona","phone":"0100"}}}`)

	result, err := f.auth.Login(context.Background(), model.LoginRequest{Phone: "0100", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, "Welcome", result.Message)
	assert.Equal(t, StepDone, result.Next)
	require.NotNil(t, result.User)
	assert.Equal(t, uint(7), result.User.ID)

	ctx := context.Background()
	assert.Equal(t, "abc", f.session.Token(ctx))
	require.NotNil(t, f.session.User(ctx))
	assert.Equal(t, "Mona", f.session.User(ctx).Name)

	calls := f.api.callsTo(http.MethodPost, "/auth/login")
	require.Len(t, calls, 1)
	assert.Equal(t, "0100", calls[0].Form["phone"])
	assert.Equal(t, "secret1", calls[0].Form["password"])
	assert.Nil(t, calls[0].JSON, "auth forms are sent as multipart")
	assert.Empty(t, calls[0].Authorization)

	carts := f.api.callsTo(http.MethodGet, "/carts")
	require.Len(t, carts, 1, "cart refreshes with the new token")
	assert.Equal(t, "Bearer abc", carts[0].Authorization)
}

func TestAuthService_Login_FlatUser(t *testing.T) {
	f := setupAuthTest(t)
	f.api.reply(http.MethodPost, "/auth/login", http.StatusOK,
		`{"status":"success","data":{"token":"abc","id":9,"name":"Omar","phone":"0122"}}`)

	result, err := f.auth.Login(context.Background(), model.LoginRequest{Phone: "0122", Password: "secret1"})
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.Equal(t, uint(9), result.User.ID)

	stored := f.session.User(context.Background())
	require.NotNil(t, stored)
	assert.Equal(t, "Omar", stored.Name)
	assert.Equal(t, "0122", stored.Phone)
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	f := setupAuthTest(t)

	_, err := f.auth.Login(context.Background(), model.LoginRequest{Phone: "0100"})
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Zero(t, f.api.totalCalls())
	assert.Equal(t, "Please fill all required fields", lastNotification(t, f.notifications).Message)
}

func TestAuthService_Login_Rejected(t *testing.T) {
	f := setupAuthTest(t)
	f.api.reply(http.MethodPost, "/auth/login", http.StatusOK, `{"status":false,"message":"Wrong password"}`)

	_, err := f.auth.Login(context.Background(), model.LoginRequest{Phone: "0100", Password: "bad"})
	require.Error(t, err)
	assert.False(t, f.session.IsLoggedIn(context.Background()))

	n := lastNotification(t, f.notifications)
	assert.Equal(t, model.NotificationError, n.Kind)
	assert.Equal(t, "Wrong password", n.Message)
}

func TestAuthService_Login_NoToken(t *testing.T) {
	f := setupAuthTest(t)
	f.api.reply(http.MethodPost, "/auth/login", http.StatusOK, `{"status":"success","data":{}}`)

	_, err := f.auth.Login(context.Background(), model.LoginRequest{Phone: "0100", Password: "secret1"})
	assert.ErrorIs(t, err, ErrMissingLoginToken)
	assert.Equal(t, "Login failed", lastNotification(t, f.notifications).Message)
}

func validRegistration() model.RegisterRequest {
	return model.RegisterRequest{
		Name:                 "Mona",
		Phone:                "0100",
		ParentPhone:          "0111",
		GradeID:              3,
		SectionID:            2,
		CityID:               1,
		Password:             "secret1",
		PasswordConfirmation: "secret1",
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*model.RegisterRequest)
		want   error
	}{
		{"password mismatch", func(r *model.RegisterRequest) { r.PasswordConfirmation = "other" }, ErrPasswordMismatch},
		{"missing name", func(r *model.RegisterRequest) { r.Name = " " }, ErrMissingFields},
		{"missing parent phone", func(r *model.RegisterRequest) { r.ParentPhone = "" }, ErrMissingFields},
		{"missing grade", func(r *model.RegisterRequest) { r.GradeID = 0 }, ErrMissingFields},
		{"missing city", func(r *model.RegisterRequest) { r.CityID = 0 }, ErrMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupAuthTest(t)
			req := validRegistration()
			tt.modify(&req)

			_, err := f.auth.Register(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, f.api.totalCalls())
		})
	}
}

func TestAuthService_Register_MovesToOTPAndStartsCooldown(t *testing.T) {
	f := setupAuthTest(t)
	f.api.reply(http.MethodPost, "/auth/signup", http.StatusOK, `{"status":true,"message":"Code sent"}`)

	result, err := f.auth.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, StepOTP, result.Next)
	assert.Equal(t, "Code sent", result.Message)
	assert.False(t, f.auth.Cooldown().CanResend())

	calls := f.api.callsTo(http.MethodPost, "/auth/signup")
	require.Len(t, calls, 1)
	assert.Equal(t, "Mona", calls[0].Form["name"])
	assert.Equal(t, "0111", calls[0].Form["parent_phone"])
	assert.Equal(t, "3", calls[0].Form["grade_id"])
	assert.Equal(t, "secret1", calls[0].Form["password_confirmation"])
}

func TestAuthService_VerifyCode(t *testing.T) {
	f := setupAuthTest(t)
	f.api.reply(http.MethodPost, "/auth/verifycode", http.StatusOK, `{"status":true}`)

	_, err := f.auth.VerifyCode(context.Background(), "0100", "12 3", FlowRegister)
	assert.ErrorIs(t, err, ErrCodeIncomplete)
	assert.Zero(t, f.api.totalCalls())

	result, err := f.auth.VerifyCode(context.Background(), "0100", "12-34-56", FlowRegister)
	require.NoError(t, err)
	assert.Equal(t, StepDone, result.Next)
	assert.Equal(t, "Code verified", result.Message)

	result, err = f.auth.VerifyCode(context.Background(), "0100", "654321", FlowForgot)
	require.NoError(t, err)
	assert.Equal(t, StepReset, result.Next)

	calls := f.api.callsTo(http.MethodPost, "/auth/verifycode")
	require.Len(t, calls, 2)
	assert.Equal(t, "123456", calls[0].Form["code"])
	assert.Equal(t, "0100", calls[0].Form["phone"])
}

func TestAuthService_VerifyCode_Invalid(t *testing.T) {
	f := setupAuthTest(t)
	f.api.reply(http.MethodPost, "/auth/verifycode", http.StatusUnprocessableEntity, `{"status":false}`)

	_, err := f.auth.VerifyCode(context.Background(), "0100", "123456", FlowRegister)
	require.Error(t, err)
	assert.Equal(t, "Invalid verification code", lastNotification(t, f.notifications).Message)
}

func TestAuthService_SendCode_RespectsCooldown(t *testing.T) {
	f := setupAuthTest(t)
	f.api.reply(http.MethodPost, "/auth/sendverifycode", http.StatusOK, `{"status":true}`)
	ctx := context.Background()

	result, err := f.auth.SendCode(ctx, "0100")
	require.NoError(t, err)
	assert.Equal(t, StepOTPForgot, result.Next)

	_, err = f.auth.SendCode(ctx, "0100")
	assert.ErrorIs(t, err, ErrResendTooSoon)
	assert.Len(t, f.api.callsTo(http.MethodPost, "/auth/sendverifycode"), 1)

	*f.now = f.now.Add(time.Minute)
	_, err = f.auth.SendCode(ctx, "0100")
	require.NoError(t, err)

	calls := f.api.callsTo(http.MethodPost, "/auth/sendverifycode")
	require.Len(t, calls, 2)
	assert.Equal(t, "0100", calls[1].Form["phone"])
}

func TestAuthService_SendCode_FailureKeepsCooldownOpen(t *testing.T) {
	f := setupAuthTest(t)
	f.api.reply(http.MethodPost, "/auth/sendverifycode", http.StatusOK, `{"status":false,"message":"Unknown phone"}`)

	_, err := f.auth.SendCode(context.Background(), "0100")
	require.Error(t, err)
	assert.True(t, f.auth.Cooldown().CanResend())
	assert.Equal(t, "Unknown phone", lastNotification(t, f.notifications).Message)
}

func TestAuthService_ResetPassword(t *testing.T) {
	tests := []struct {
		name string
		req  model.ResetPasswordRequest
		want error
	}{
		{"missing phone", model.ResetPasswordRequest{NewPassword: "secret1", NewPasswordConfirmation: "secret1"}, ErrMissingFields},
		{"missing confirmation", model.ResetPasswordRequest{Phone: "0100", NewPassword: "secret1"}, ErrMissingFields},
		{"mismatch", model.ResetPasswordRequest{Phone: "0100", NewPassword: "secret1", NewPasswordConfirmation: "secret2"}, ErrPasswordMismatch},
		{"too short", model.ResetPasswordRequest{Phone: "0100", NewPassword: "abc", NewPasswordConfirmation: "abc"}, ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupAuthTest(t)
			_, err := f.auth.ResetPassword(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, f.api.totalCalls())
		})
	}

	t.Run("success moves to login", func(t *testing.T) {
		f := setupAuthTest(t)
		f.api.reply(http.MethodPost, "/auth/changepassword", http.StatusOK, `{"status":true}`)

		result, err := f.auth.ResetPassword(context.Background(), model.ResetPasswordRequest{
			Phone: "0100", NewPassword: "secret1", NewPasswordConfirmation: "secret1",
		})
		require.NoError(t, err)
		assert.Equal(t, StepLogin, result.Next)

		calls := f.api.callsTo(http.MethodPost, "/auth/changepassword")
		require.Len(t, calls, 1)
		assert.Equal(t, "secret1", calls[0].Form["new_password_confirmation"])
	})
}

func TestAuthService_Profile(t *testing.T) {
	f := setupAuthTest(t)
	ctx := context.Background()

	_, err := f.auth.Profile(ctx)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Zero(t, f.api.totalCalls())

	login(t, f.session, "tok")
	f.api.reply(http.MethodGet, "/auth/get-profile", http.StatusOK, `{"status":true,"data":{"id":1,"name":"Updated","grade_name":"Grade 3"}}`)

	user, err := f.auth.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Updated", user.Name)
	assert.Equal(t, "Updated", f.session.User(ctx).Name)
	assert.Equal(t, "tok", f.session.Token(ctx))
	assert.Equal(t, "Bearer tok", f.api.callsTo(http.MethodGet, "/auth/get-profile")[0].Authorization)
}

func TestAuthService_UpdateProfile_Multipart(t *testing.T) {
	f := setupAuthTest(t)
	login(t, f.session, "tok")
	f.api.reply(http.MethodPost, "/auth/update-profile", http.StatusOK, `{"status":true,"message":"Saved"}`)

	user, err := f.auth.UpdateProfile(context.Background(), model.ProfileUpdate{
		Name:          "New Name",
		Phone:         "0100",
		GradeID:       4,
		ImageName:     "me.png",
		ImageContents: []byte("png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, uint(4), user.GradeID)
	assert.Equal(t, "Saved", lastNotification(t, f.notifications).Message)

	calls := f.api.callsTo(http.MethodPost, "/auth/update-profile")
	require.Len(t, calls, 1)
	assert.Equal(t, "New Name", calls[0].Form["name"])
	assert.Equal(t, "4", calls[0].Form["grade_id"])
	assert.Equal(t, "me.png", calls[0].Files["image"])
	_, hasParent := calls[0].Form["parent_phone"]
	assert.False(t, hasParent)
}

func TestAuthService_ChangePassword(t *testing.T) {
	f := setupAuthTest(t)
	login(t, f.session, "tok")
	ctx := context.Background()

	err := f.auth.ChangePassword(ctx, model.ChangePasswordRequest{NewPassword: "secret1", NewPasswordConfirmation: "secret1"})
	assert.ErrorIs(t, err, ErrMissingFields)

	err = f.auth.ChangePassword(ctx, model.ChangePasswordRequest{OldPassword: "old", NewPassword: "12345", NewPasswordConfirmation: "12345"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Zero(t, f.api.totalCalls())

	f.api.reply(http.MethodPost, "/auth/update-password-profile", http.StatusOK, `{"status":true}`)
	err = f.auth.ChangePassword(ctx, model.ChangePasswordRequest{OldPassword: "old", NewPassword: "secret1", NewPasswordConfirmation: "secret1"})
	require.NoError(t, err)

	calls := f.api.callsTo(http.MethodPost, "/auth/update-password-profile")
	require.Len(t, calls, 1)
	assert.Equal(t, "old", calls[0].Form["old_password"])
	assert.Equal(t, "Bearer tok", calls[0].Authorization)
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("success clears login", func(t *testing.T) {
		f := setupAuthTest(t)
		login(t, f.session, "tok")
		f.api.reply(http.MethodPost, "/auth/logout", http.StatusOK, `{"status":true}`)

		require.NoError(t, f.auth.Logout(context.Background()))
		assert.False(t, f.session.IsLoggedIn(context.Background()))
		assert.Nil(t, f.session.User(context.Background()))
	})

	t.Run("failure keeps login", func(t *testing.T) {
		f := setupAuthTest(t)
		login(t, f.session, "tok")
		f.api.reply(http.MethodPost, "/auth/logout", http.StatusInternalServerError, `{"status":false}`)

		require.Error(t, f.auth.Logout(context.Background()))
		assert.True(t, f.session.IsLoggedIn(context.Background()))
		assert.Equal(t, "Failed to logout", lastNotification(t, f.notifications).Message)
	})

	t.Run("no token is a no-op", func(t *testing.T) {
		f := setupAuthTest(t)
		require.NoError(t, f.auth.Logout(context.Background()))
		assert.Zero(t, f.api.totalCalls())
	})
}
