package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-admin-console/internal/model"
	"go-admin-console/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Code:    "OK",
		Message: "success",
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "Unexpected server error"

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		code = apiErr.Code
		message = apiErr.Message
		if apiErr.Details != "" {
			message = apiErr.Message + ": " + apiErr.Details
		}
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = "User not found"
	} else if errors.Is(err, model.ErrUserAlreadyExists) {
		status = http.StatusConflict
		code = "ALREADY_EXISTS"
		message = "Account already exists"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusUnauthorized
		code = "UNAUTHORIZED"
		message = "Invalid credentials"
	} else if errors.Is(err, model.ErrInvalidToken) {
		status = http.StatusUnauthorized
		code = "UNAUTHORIZED"
		message = "Invalid or expired token"
	} else if errors.Is(err, model.ErrUnauthorized) {
		status = http.StatusUnauthorized
		code = "UNAUTHORIZED"
		message = "Authentication required"
	} else if errors.Is(err, model.ErrForbidden) {
		status = http.StatusForbidden
		code = "FORBIDDEN"
		message = "Access denied"
	} else if errors.Is(err, model.ErrRoleNotFound) {
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = "Role not found"
	} else if errors.Is(err, model.ErrRoleAlreadyExists) {
		status = http.StatusConflict
		code = "ALREADY_EXISTS"
		message = "Role key already exists"
	} else if errors.Is(err, model.ErrRouteNotFound) {
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = "Route not found"
	} else if errors.Is(err, model.ErrRouteParentNotFound) {
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = "Parent route not found"
	} else if errors.Is(err, model.ErrNoticeNotFound) {
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = "Notice not found"
	} else if errors.Is(err, model.ErrDictTypeNotFound) {
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = "Dictionary type not found"
	} else if errors.Is(err, model.ErrDictTypeAlreadyExists) {
		status = http.StatusConflict
		code = "ALREADY_EXISTS"
		message = "Dictionary type key already exists"
	} else if errors.Is(err, model.ErrDictItemNotFound) {
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = "Dictionary item not found"
	} else if errors.Is(err, model.ErrTemplateNotFound) {
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = "Email template not found"
	} else if errors.Is(err, model.ErrTemplateAlreadyExists) {
		status = http.StatusConflict
		code = "ALREADY_EXISTS"
		message = "Email template code already exists"
	} else if errors.Is(err, model.ErrMailerNotConfigured) {
		status = http.StatusServiceUnavailable
		code = "MAILER_NOT_CONFIGURED"
		message = "SMTP is not configured"
	} else if errors.Is(err, model.ErrCaptchaMismatch) {
		status = http.StatusBadRequest
		code = "CAPTCHA_MISMATCH"
		message = "Verification code is wrong or expired"
	} else if errors.Is(err, model.ErrUploadNotFound) {
		status = http.StatusNotFound
		code = "NOT_FOUND"
		message = "Upload session not found"
	} else if errors.Is(err, model.ErrPlatformNotConfigured) {
		status = http.StatusUnauthorized
		code = "UNAUTHORIZED"
		message = "Platform is not configured for authentication"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		code = "BAD_REQUEST"
		message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Code:    code,
		Message: message,
	})
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierror.New("BAD_REQUEST", "request body is not valid JSON", err.Error(), http.StatusBadRequest)
	}
	return nil
}
