package service

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/i18n"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
)

var (
	ErrMissingFields     = errors.New("required fields are missing")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrPasswordTooShort  = errors.New("password is too short")
	ErrCodeIncomplete    = errors.New("verification code is incomplete")
	ErrResendTooSoon     = errors.New("verification code was sent recently")
	ErrMissingLoginToken = errors.New("login response has no token")
)

const minPasswordLength = 6

// FlowStep names the screen the auth flow continues with.
type FlowStep string

const (
	StepOTP       FlowStep = "otp"
	StepOTPForgot FlowStep = "otp-forgetpass"
	StepReset     FlowStep = "reset"
	StepLogin     FlowStep = "login"
	StepDone      FlowStep = "done"
)

// VerifyFlow tells VerifyCode which flow the code belongs to.
type VerifyFlow string

const (
	FlowRegister VerifyFlow = "register"
	FlowForgot   VerifyFlow = "forgot"
)

// AuthResult is what a form submission reports back.
type AuthResult struct {
	Message string      `json:"message"`
	Next    FlowStep    `json:"next,omitempty"`
	User    *model.User `json:"user,omitempty"`
}

type AuthService interface {
	Login(ctx context.Context, req model.LoginRequest) (AuthResult, error)
	Register(ctx context.Context, req model.RegisterRequest) (AuthResult, error)
	VerifyCode(ctx context.Context, phone, code string, flow VerifyFlow) (AuthResult, error)
	SendCode(ctx context.Context, phone string) (AuthResult, error)
	ResetPassword(ctx context.Context, req model.ResetPasswordRequest) (AuthResult, error)
	Profile(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error)
	ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error
	Logout(ctx context.Context) error
	Cooldown() *Cooldown
}

type authService struct {
	api           StoreAPI
	session       SessionService
	cart          CartService
	notifications NotificationService
	otpLength     int
	cooldown      *Cooldown
}

func NewAuthService(
	api StoreAPI,
	session SessionService,
	cart CartService,
	notifications NotificationService,
	otpLength int,
	cooldown *Cooldown,
) AuthService {
	if cooldown == nil {
		cooldown = NewCooldown(DefaultResendCooldown, nil)
	}
	return &authService{
		api:           api,
		session:       session,
		cart:          cart,
		notifications: notifications,
		otpLength:     otpLength,
		cooldown:      cooldown,
	}
}

func (s *authService) Cooldown() *Cooldown {
	return s.cooldown
}

// invalid reports a client-side validation failure without any request.
func (s *authService) invalid(lang string, err error, key string) error {
	s.notifications.Error("", i18n.T(lang, key))
	return err
}

// failed reports a rejected or failed call with the server message, if any.
func (s *authService) failed(lang, action string, err error, key string) error {
	logger.Warn("Auth request failed", map[string]interface{}{
		"action": action,
		"error":  err.Error(),
	})
	s.notifications.Error("", userMessage(err, lang, key))
	return err
}

func (s *authService) refreshCart(ctx context.Context) {
	if s.cart == nil {
		return
	}
	if err := s.cart.Fetch(ctx); err != nil {
		logger.Debug("Cart refresh after auth change failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// decodeLogin reads the login data block. The user is either nested under
// "user" or sent flat next to the token.
func decodeLogin(env *storeapi.Envelope) (model.LoginResult, error) {
	var result model.LoginResult
	if err := env.DecodeData(&result); err != nil {
		return result, err
	}
	if result.User == nil {
		var flat model.User
		if err := env.DecodeData(&flat); err != nil {
			return result, err
		}
		result.User = &flat
	}
	return result, nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// Login persists the token and user on success and refreshes the cart.
func (s *authService) Login(ctx context.Context, req model.LoginRequest) (AuthResult, error) {
	lang := s.session.Language(ctx)
	if blank(req.Phone, req.Password) {
		return AuthResult{}, s.invalid(lang, ErrMissingFields, i18n.AuthFillRequired)
	}

	form := storeapi.NewForm().
		Set("phone", req.Phone).
		Set("password", req.Password)
	env, err := s.api.PostForm(ctx, "/auth/login", form, storeapi.WithLanguage(lang))
	if err != nil {
		return AuthResult{}, s.failed(lang, "login", err, i18n.AuthLoginFailed)
	}

	result, err := decodeLogin(env)
	if err != nil {
		return AuthResult{}, s.failed(lang, "login", err, i18n.AuthLoginFailed)
	}
	if result.Token == "" {
		return AuthResult{}, s.failed(lang, "login", ErrMissingLoginToken, i18n.AuthLoginFailed)
	}

	if err := s.session.SaveLogin(ctx, result.Token, result.User); err != nil {
		logger.Error("Failed to persist login", err)
		return AuthResult{}, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": result.User.ID,
	})

	msg := i18n.Or(env.Message, lang, i18n.AuthLoginSuccess)
	s.notifications.Success("", msg)
	s.refreshCart(ctx)
	return AuthResult{Message: msg, Next: StepDone, User: result.User}, nil
}

// Register validates the form locally, signs up and moves to the OTP step.
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (AuthResult, error) {
	lang := s.session.Language(ctx)
	if req.Password != req.PasswordConfirmation {
		return AuthResult{}, s.invalid(lang, ErrPasswordMismatch, i18n.AuthPasswordMismatch)
	}
	if blank(req.Name, req.Phone, req.ParentPhone, req.Password) || req.GradeID == 0 || req.CityID == 0 {
		return AuthResult{}, s.invalid(lang, ErrMissingFields, i18n.AuthFillRequired)
	}

	form := storeapi.NewForm().
		Set("name", req.Name).
		Set("phone", req.Phone).
		Set("parent_phone", req.ParentPhone).
		SetUint("grade_id", req.GradeID).
		SetUint("city_id", req.CityID).
		Set("password", req.Password).
		Set("password_confirmation", req.PasswordConfirmation)
	if req.SectionID != 0 {
		form.SetUint("section_id", req.SectionID)
	}
	env, err := s.api.PostForm(ctx, "/auth/signup", form, storeapi.WithLanguage(lang))
	if err != nil {
		return AuthResult{}, s.failed(lang, "signup", err, i18n.AuthRegisterFailed)
	}

	logger.Info("User registered", map[string]interface{}{
		"grade_id": req.GradeID,
		"city_id":  req.CityID,
	})

	// The server sends the first code as part of signup.
	s.cooldown.Restart()

	msg := i18n.Or(env.Message, lang, i18n.AuthRegisterSuccess)
	s.notifications.Success("", msg)
	return AuthResult{Message: msg, Next: StepOTP}, nil
}

// VerifyCode accepts the code as typed or pasted; it must fill every cell.
func (s *authService) VerifyCode(ctx context.Context, phone, code string, flow VerifyFlow) (AuthResult, error) {
	lang := s.session.Language(ctx)

	input := NewOTPInput(s.otpLength)
	input.Paste(code)
	normalized, complete := input.Code()
	if !complete {
		return AuthResult{}, s.invalid(lang, ErrCodeIncomplete, i18n.AuthCodeIncomplete)
	}

	form := storeapi.NewForm().
		Set("code", normalized).
		SetIfNotEmpty("phone", phone)
	env, err := s.api.PostForm(ctx, "/auth/verifycode", form, storeapi.WithLanguage(lang))
	if err != nil {
		return AuthResult{}, s.failed(lang, "verify_code", err, i18n.AuthCodeInvalid)
	}

	next := StepDone
	if flow == FlowForgot {
		next = StepReset
	}
	msg := i18n.Or(env.Message, lang, i18n.AuthCodeVerified)
	s.notifications.Success("", msg)
	return AuthResult{Message: msg, Next: next}, nil
}

// SendCode starts the forgot-password flow or resends a code. A resend inside
// the cooldown window is refused without a request.
func (s *authService) SendCode(ctx context.Context, phone string) (AuthResult, error) {
	lang := s.session.Language(ctx)
	if blank(phone) {
		return AuthResult{}, s.invalid(lang, ErrMissingFields, i18n.AuthFillRequired)
	}
	if !s.cooldown.CanResend() {
		return AuthResult{}, s.invalid(lang, ErrResendTooSoon, i18n.AuthResendWait)
	}

	form := storeapi.NewForm().Set("phone", phone)
	env, err := s.api.PostForm(ctx, "/auth/sendverifycode", form, storeapi.WithLanguage(lang))
	if err != nil {
		return AuthResult{}, s.failed(lang, "send_code", err, i18n.AuthCodeSendFailed)
	}

	s.cooldown.Restart()
	msg := i18n.Or(env.Message, lang, i18n.AuthCodeSent)
	s.notifications.Success("", msg)
	return AuthResult{Message: msg, Next: StepOTPForgot}, nil
}

func validateNewPassword(password, confirmation string) error {
	if blank(password, confirmation) {
		return ErrMissingFields
	}
	if password != confirmation {
		return ErrPasswordMismatch
	}
	if len([]rune(password)) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func passwordMessageKey(err error) string {
	switch {
	case errors.Is(err, ErrPasswordMismatch):
		return i18n.AuthPasswordMismatch
	case errors.Is(err, ErrPasswordTooShort):
		return i18n.AuthPasswordTooShort
	default:
		return i18n.AuthFillRequired
	}
}

// ResetPassword sets a new password at the end of the forgot-password flow.
func (s *authService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) (AuthResult, error) {
	lang := s.session.Language(ctx)
	if blank(req.Phone) {
		return AuthResult{}, s.invalid(lang, ErrMissingFields, i18n.AuthFillRequired)
	}
	if err := validateNewPassword(req.NewPassword, req.NewPasswordConfirmation); err != nil {
		return AuthResult{}, s.invalid(lang, err, passwordMessageKey(err))
	}

	form := storeapi.NewForm().
		Set("phone", req.Phone).
		Set("new_password", req.NewPassword).
		Set("new_password_confirmation", req.NewPasswordConfirmation)
	env, err := s.api.PostForm(ctx, "/auth/changepassword", form, storeapi.WithLanguage(lang))
	if err != nil {
		return AuthResult{}, s.failed(lang, "reset_password", err, i18n.AuthPasswordResetFailed)
	}

	msg := i18n.Or(env.Message, lang, i18n.AuthPasswordReset)
	s.notifications.Success("", msg)
	return AuthResult{Message: msg, Next: StepLogin}, nil
}

// Profile fetches the signed-in user and refreshes the stored copy.
func (s *authService) Profile(ctx context.Context) (*model.User, error) {
	lang := s.session.Language(ctx)
	if !s.session.IsLoggedIn(ctx) {
		return nil, s.invalid(lang, ErrLoginRequired, i18n.ProfilePleaseLogin)
	}

	env, err := s.api.Get(ctx, "/auth/get-profile", nil, requestOptions(ctx, s.session)...)
	if err != nil {
		return nil, s.failed(lang, "get_profile", err, i18n.ProfileFetchFailed)
	}

	var user model.User
	if err := env.DecodeData(&user); err != nil {
		return nil, s.failed(lang, "get_profile", err, i18n.ProfileFetchFailed)
	}
	s.storeUser(ctx, &user)
	return &user, nil
}

func (s *authService) storeUser(ctx context.Context, user *model.User) {
	if err := s.session.SaveLogin(ctx, s.session.Token(ctx), user); err != nil {
		logger.Warn("Failed to store profile", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// UpdateProfile posts the editable fields as multipart, with the image when given.
func (s *authService) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	lang := s.session.Language(ctx)
	if !s.session.IsLoggedIn(ctx) {
		return nil, s.invalid(lang, ErrLoginRequired, i18n.ProfilePleaseLogin)
	}
	if blank(update.Name, update.Phone) {
		return nil, s.invalid(lang, ErrMissingFields, i18n.AuthFillRequired)
	}

	form := storeapi.NewForm().
		Set("name", update.Name).
		Set("phone", update.Phone).
		SetIfNotEmpty("parent_phone", update.ParentPhone)
	if update.GradeID != 0 {
		form.SetUint("grade_id", update.GradeID)
	}
	if update.SectionID != 0 {
		form.SetUint("section_id", update.SectionID)
	}
	if update.CityID != 0 {
		form.SetUint("city_id", update.CityID)
	}
	if len(update.ImageContents) > 0 {
		name := update.ImageName
		if name == "" {
			name = "profile.jpg"
		}
		form.AddFile("image", name, bytes.NewReader(update.ImageContents))
	}

	env, err := s.api.PostForm(ctx, "/auth/update-profile", form, requestOptions(ctx, s.session)...)
	if err != nil {
		return nil, s.failed(lang, "update_profile", err, i18n.ProfileUpdateFailed)
	}

	user := s.session.User(ctx)
	if user == nil {
		user = &model.User{}
	}
	if env.HasData() {
		var updated model.User
		if err := env.DecodeData(&updated); err == nil {
			user = &updated
		}
	} else {
		user.Name = update.Name
		user.Phone = update.Phone
		user.ParentPhone = update.ParentPhone
		user.GradeID = update.GradeID
		user.SectionID = update.SectionID
		user.CityID = update.CityID
	}
	s.storeUser(ctx, user)

	s.notifications.Success("", i18n.Or(env.Message, lang, i18n.ProfileUpdated))
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	lang := s.session.Language(ctx)
	if !s.session.IsLoggedIn(ctx) {
		return s.invalid(lang, ErrLoginRequired, i18n.ProfilePleaseLogin)
	}
	if blank(req.OldPassword) {
		return s.invalid(lang, ErrMissingFields, i18n.AuthFillRequired)
	}
	if err := validateNewPassword(req.NewPassword, req.NewPasswordConfirmation); err != nil {
		return s.invalid(lang, err, passwordMessageKey(err))
	}

	form := storeapi.NewForm().
		Set("old_password", req.OldPassword).
		Set("new_password", req.NewPassword).
		Set("new_password_confirmation", req.NewPasswordConfirmation)
	env, err := s.api.PostForm(ctx, "/auth/update-password-profile", form, requestOptions(ctx, s.session)...)
	if err != nil {
		return s.failed(lang, "change_password", err, i18n.ProfilePasswordFailed)
	}

	s.notifications.Success("", i18n.Or(env.Message, lang, i18n.ProfilePasswordChanged))
	return nil
}

// Logout clears the stored token and user only when the server accepts it.
func (s *authService) Logout(ctx context.Context) error {
	lang := s.session.Language(ctx)
	if !s.session.IsLoggedIn(ctx) {
		return nil
	}

	env, err := s.api.PostJSON(ctx, "/auth/logout", struct{}{}, requestOptions(ctx, s.session)...)
	if err != nil {
		return s.failed(lang, "logout", err, i18n.ProfileLogoutFailed)
	}

	if err := s.session.ClearLogin(ctx); err != nil {
		logger.Error("Failed to clear login", err)
		return err
	}
	logger.Info("User logged out")

	s.notifications.Success("", i18n.Or(env.Message, lang, i18n.ProfileLoggedOut))
	s.refreshCart(ctx)
	return nil
}
