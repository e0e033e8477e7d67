package domain

import "errors"

var (
	ErrUsernameTaken       = errors.New("user with this username already exists")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrCreditNotFound      = errors.New("credit not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
)
