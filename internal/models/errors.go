package models

import "errors"

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrWalletExists        = errors.New("wallet already exists for user")
	ErrDuplicateReference  = errors.New("transaction reference already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSameWallet          = errors.New("cannot transfer to your own wallet")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrLockTimeout         = errors.New("could not acquire row lock in time")
)
