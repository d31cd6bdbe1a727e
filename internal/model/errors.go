package model

import "errors"

var (
	// Identity errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token errors
	ErrInvalidToken          = errors.New("invalid token")
	ErrPlatformNotConfigured = errors.New("platform not configured")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Role errors
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleAlreadyExists = errors.New("role key already exists")

	// Route errors
	ErrRouteNotFound       = errors.New("route not found")
	ErrRouteParentNotFound = errors.New("parent route not found")

	// Notice errors
	ErrNoticeNotFound = errors.New("notice not found")

	// Dictionary errors
	ErrDictTypeNotFound      = errors.New("dict type not found")
	ErrDictTypeAlreadyExists = errors.New("dict type key already exists")
	ErrDictItemNotFound      = errors.New("dict item not found")

	// Email errors
	ErrTemplateNotFound      = errors.New("email template not found")
	ErrTemplateAlreadyExists = errors.New("email template code already exists")
	ErrMailerNotConfigured   = errors.New("mailer not configured")

	// Captcha errors
	ErrCaptchaMismatch = errors.New("captcha code mismatch")

	// Upload errors
	ErrUploadNotFound = errors.New("upload session not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
