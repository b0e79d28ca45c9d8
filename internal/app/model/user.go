package model

// User is the profile stored next to the token after login
type User struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	ParentPhone string `json:"parent_phone,omitempty"`
	Image       string `json:"image,omitempty"`
	GradeID     uint   `json:"grade_id,omitempty"`
	GradeName   string `json:"grade_name,omitempty"`
	SectionID   uint   `json:"section_id,omitempty"`
	CityID      uint   `json:"city_id,omitempty"`
}

// LoginRequest is the body of the login form
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is the data block of a successful login. User is nil when the
// API sends the user fields flat next to the token.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// RegisterRequest is the body of the registration form
type RegisterRequest struct {
	Name                 string `json:"name"`
	Phone                string `json:"phone"`
	ParentPhone          string `json:"parent_phone"`
	GradeID              uint   `json:"grade_id"`
	SectionID            uint   `json:"section_id"`
	CityID               uint   `json:"city_id"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ResetPasswordRequest sets a new password after the OTP step
type ResetPasswordRequest struct {
	Phone                   string `json:"phone"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

// ChangePasswordRequest changes the password of the signed-in user
type ChangePasswordRequest struct {
	OldPassword             string `json:"old_password"`
	NewPassword             string `json:"new_password"`
	NewPasswordConfirmation string `json:"new_password_confirmation"`
}

// ProfileUpdate carries editable profile fields. Image is optional.
type ProfileUpdate struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	ParentPhone   string `json:"parent_phone"`
	GradeID       uint   `json:"grade_id"`
	SectionID     uint   `json:"section_id"`
	CityID        uint   `json:"city_id"`
	ImageName     string `json:"-"`
	ImageContents []byte `json:"-"`
}
