package service

import "errors"

var (
	ErrDuplicateRequest     = errors.New("duplicate request")
	ErrOutOfStock           = errors.New("selected size is out of stock")
	ErrMissingSelection     = errors.New("size and instagram username are required")
	ErrProductNotFound      = errors.New("product not found")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
	ErrSubmitInProgress     = errors.New("order submission already in progress")
)
