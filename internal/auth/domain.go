// Package auth implements account login, password lifecycle, and the OTP
// based password recovery flow.
package auth

import "errors"

// User is one row in the users table. The password hash never leaves the
// package.
type User struct {
	ID           int64  `json:"id"`
	EmpID        int64  `json:"emp_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         int    `json:"role"`
}

// EmployeeRef is the slice of the employee directory auth needs.
type EmployeeRef struct {
	EmpID        int64
	FirstName    string
	CurrentDptID int64
}

// DefaultRole is assigned to accounts created through the update flow.
const DefaultRole = 3

// ErrEmployeeNotFound indicates no employee matches the supplied ID number.
var ErrEmployeeNotFound = errors.New("auth: employee not found")

// ErrUserNotFound indicates no account row exists for the employee.
var ErrUserNotFound = errors.New("auth: user not found")

// ErrEmailMismatch indicates the supplied email does not match the account.
var ErrEmailMismatch = errors.New("auth: email does not match records")

// ErrEmailNotFound indicates no account uses the supplied email.
var ErrEmailNotFound = errors.New("auth: email not found")

// ErrOTPInvalid indicates the code is wrong, expired, or already consumed.
var ErrOTPInvalid = errors.New("auth: invalid or expired otp")

// ErrFirstLogin signals the caller must complete account setup. Login with
// the default password succeeds but issues no token.
var ErrFirstLogin = errors.New("auth: first login, account setup required")
