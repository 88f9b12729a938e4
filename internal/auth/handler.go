package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/adts-project/adts/internal/platform/httpx"
	"github.com/adts-project/adts/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows. Response shapes
// follow the frontend contract, mixed "msg"/"error"/"success" keys included.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/verify-email-id", h.VerifyEmailID)
	r.Post("/verify-otp", h.VerifyOTP)
	r.Post("/resend-otp", h.ResendOTP)
	r.Post("/update", h.Update)
	r.Post("/reset-password", h.ResetPassword)
	r.Post("/change-password", h.ChangePassword)
	r.Put("/update-email", h.UpdateEmail)
}

type loginRequest struct {
	IDNumber string `json:"id_number" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"msg": "Please provide both ID Number and password."})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"msg": "Please provide both ID Number and password."})
		return
	}

	result, err := h.service.Login(r.Context(), req.IDNumber, req.Password)
	switch {
	case err == nil:
		httpx.JSON(w, http.StatusOK, map[string]any{
			"msg":          "Login successful",
			"redirect":     "home",
			"token":        result.Token,
			"user":         result.User,
			"emp_id":       result.EmpID,
			"firstLetter":  result.FirstLetter,
			"currentDptId": result.CurrentDptID,
		})
	case errors.Is(err, ErrFirstLogin):
		httpx.JSON(w, http.StatusOK, map[string]any{
			"msg":          "Redirect to update",
			"redirect":     "update",
			"id_number":    req.IDNumber,
			"emp_id":       result.EmpID,
			"firstLetter":  result.FirstLetter,
			"currentDptId": result.CurrentDptID,
		})
	case errors.Is(err, shared.ErrInvalidCredentials):
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid credentials"})
	default:
		h.logger.Error("login", slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, map[string]string{"msg": "Server error"})
	}
}

type verifyEmailIDRequest struct {
	Email    string `json:"email" validate:"required"`
	IDNumber string `json:"id_number" validate:"required"`
}

// VerifyEmailID handles POST /verify-email-id, the first step of password
// recovery.
func (h *Handler) VerifyEmailID(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailIDRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Email and ID Number are required.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Email and ID Number are required.")
		return
	}

	employee, err := h.service.RequestOTP(r.Context(), req.Email, req.IDNumber)
	switch {
	case err == nil:
		httpx.JSON(w, http.StatusOK, map[string]any{
			"message":        "OTP has been sent to your email.",
			"emp_id":         employee.EmpID,
			"current_dpt_id": employee.CurrentDptID,
		})
	case errors.Is(err, ErrEmployeeNotFound):
		httpx.Error(w, http.StatusBadRequest, "Employee not found with given ID number.")
	case errors.Is(err, ErrEmailMismatch):
		httpx.Error(w, http.StatusBadRequest, "Email does not match our records.")
	default:
		h.logger.Error("verify email id", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error.")
	}
}

type verifyOTPRequest struct {
	EmpID int64  `json:"emp_id" validate:"required,gt=0"`
	OTP   string `json:"otp" validate:"required"`
}

// VerifyOTP handles POST /verify-otp.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"msg": "emp_id and OTP are required."})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"msg": "emp_id and OTP are required."})
		return
	}

	result, err := h.service.VerifyOTP(r.Context(), req.EmpID, req.OTP)
	switch {
	case err == nil:
		httpx.JSON(w, http.StatusOK, map[string]any{
			"msg":      "OTP verified successfully",
			"redirect": "home",
			"token":    result.Token,
			"user":     result.User,
		})
	case errors.Is(err, ErrOTPInvalid):
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid or expired OTP."})
	case errors.Is(err, ErrUserNotFound):
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"msg": "User not found."})
	default:
		h.logger.Error("verify otp", slog.Int64("emp_id", req.EmpID), slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, map[string]string{"msg": "Server error."})
	}
}

type resendOTPRequest struct {
	EmpID int64 `json:"emp_id" validate:"required,gt=0"`
}

// ResendOTP handles POST /resend-otp.
func (h *Handler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendOTPRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"msg": "emp_id is required."})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.JSON(w, http.StatusBadRequest, map[string]string{"msg": "emp_id is required."})
		return
	}

	if err := h.service.ResendOTP(r.Context(), req.EmpID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httpx.JSON(w, http.StatusBadRequest, map[string]string{"msg": "User not found."})
			return
		}
		h.logger.Error("resend otp", slog.Int64("emp_id", req.EmpID), slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, map[string]string{"msg": "Server error."})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"msg": "OTP has been resent successfully."})
}

type updateRequest struct {
	EmpID    int64  `json:"emp_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Update handles POST /update, completing first-login account setup.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Employee ID (emp_id) is missing")
		return
	}
	if req.EmpID <= 0 {
		httpx.Error(w, http.StatusBadRequest, "Employee ID (emp_id) is missing")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	created, err := h.service.UpdateAccount(r.Context(), req.EmpID, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			httpx.Error(w, http.StatusNotFound, fmt.Sprintf("Employee ID %d not found in the employee table.", req.EmpID))
			return
		}
		h.logger.Error("update account", slog.Int64("emp_id", req.EmpID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}

	if created {
		httpx.JSON(w, http.StatusCreated, map[string]string{"success": "User created successfully."})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"success": "User updated successfully."})
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ResetPassword handles POST /reset-password, the final recovery step.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "email and new_password are required.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "email and new_password are required.")
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		if errors.Is(err, ErrEmailNotFound) {
			httpx.Error(w, http.StatusBadRequest, "Email not found.")
			return
		}
		h.logger.Error("reset password", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"success": "Password has been reset successfully."})
}

type changePasswordRequest struct {
	EmpID       int64  `json:"emp_id" validate:"required,gt=0"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ChangePassword handles POST /change-password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "emp_id, old_password, and new_password are required.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "emp_id, old_password, and new_password are required.")
		return
	}

	err := h.service.ChangePassword(r.Context(), req.EmpID, req.OldPassword, req.NewPassword)
	switch {
	case err == nil:
		httpx.JSON(w, http.StatusOK, map[string]string{"success": "Password updated successfully."})
	case errors.Is(err, ErrUserNotFound):
		httpx.Error(w, http.StatusNotFound, "User not found.")
	case errors.Is(err, shared.ErrInvalidCredentials):
		httpx.Error(w, http.StatusBadRequest, "Old password is incorrect.")
	default:
		h.logger.Error("change password", slog.Int64("emp_id", req.EmpID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
	}
}

type updateEmailRequest struct {
	EmpID    int64  `json:"emp_id" validate:"required,gt=0"`
	NewEmail string `json:"new_email" validate:"required"`
}

// UpdateEmail handles PUT /update-email.
func (h *Handler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	var req updateEmailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "emp_id and new_email are required.")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "emp_id and new_email are required.")
		return
	}

	if err := h.service.UpdateEmail(r.Context(), req.EmpID, req.NewEmail); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httpx.Error(w, http.StatusNotFound, "User not found.")
			return
		}
		h.logger.Error("update email", slog.Int64("emp_id", req.EmpID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"success": "Email updated successfully."})
}
