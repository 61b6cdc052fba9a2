package common

import "time"

// AccessTokenCookieName is the cookie that carries the bearer token for
// browser clients. It takes priority over the Authorization header.
const AccessTokenCookieName = "access_token"

// ResetTokenValidityDuration is the fixed lifetime of a password reset token.
const ResetTokenValidityDuration = time.Hour

// DatetimeDisplayFormat is used when timestamps are rendered as text (exports).
const DatetimeDisplayFormat = "2006-01-02 15:04:05 UTC"
