package domain

import "multiMart/pkg/apperror"

var (
	ErrProductNotFound   = apperror.NotFound("product not found")
	ErrOrderNotFound     = apperror.NotFound("order not found")
	ErrUserNotFound      = apperror.NotFound("user not found")
	ErrVendorNotFound    = apperror.NotFound("vendor not found")
	ErrReviewNotFound    = apperror.NotFound("review not found")
	ErrDisputeNotFound   = apperror.NotFound("dispute not found")
	ErrPayoutNotFound    = apperror.NotFound("payout not found")
	ErrMessageNotFound   = apperror.NotFound("message not found")
	ErrInsufficientStock = apperror.BadRequest("insufficient stock")
	ErrEmptyOrder        = apperror.Validation("order must contain at least one item")
	ErrInvalidQuantity   = apperror.Validation("quantity must be at least 1")
	ErrInvalidAddress    = apperror.Validation("shipping address is incomplete")
	ErrInvalidStatus     = apperror.BadRequest("invalid status")
	ErrInvalidTransition = apperror.BadRequest("status transition not allowed")
	ErrStatusConflict    = apperror.Conflict("status was changed concurrently")
	ErrEmailTaken        = apperror.Conflict("email already exists")
	ErrVendorExists      = apperror.Conflict("vendor profile already exists")
	ErrOrderInProgress   = apperror.Conflict("an order with this idempotency key is being processed")
	ErrInvalidVerifyCode = apperror.BadRequest("invalid or expired url")
	ErrEmailNotVerified  = apperror.New(apperror.ErrCodeForbidden, "email address has not been verified")
)
