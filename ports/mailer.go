package ports

import (
	"context"
)

// Mailer delivers one-time codes to users. Delivery is best-effort; the auth
// flow does not fail when the mailer errors.
type Mailer interface {
	// SendOTP delivers a one-time code to the given email address
	SendOTP(ctx context.Context, email, code string) error
}
