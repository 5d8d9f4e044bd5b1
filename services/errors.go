package services

import "errors"

// Sentinel errors surfaced to controllers. Anything not in this list is an
// unexpected upstream failure: logged in full server-side, returned to
// clients as a generic 500.
var (
	// ErrInvalidCredentials covers both "no such user" and "wrong
	// password"; the two cases are deliberately indistinguishable to the
	// client.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already exists")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrSessionRevoked = errors.New("session revoked")

	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound = errors.New("product not found")

	ErrCouponNotFound  = errors.New("coupon not found or inactive")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrInvalidDiscount = errors.New("discount percentage must be between 0 and 100")

	ErrPaymentNotCompleted = errors.New("payment not completed")
)
