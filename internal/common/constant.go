package common

import "time"

// AuthorizationHeader carries the access token on outbound requests,
// in the form "Bearer <token>".
const AuthorizationHeader = "Authorization"

// BearerPrefix is the scheme prefix expected in AuthorizationHeader.
const BearerPrefix = "Bearer "

// RefreshTokenCookie is the httpOnly cookie holding the refresh token.
// The refresh token never appears in a JSON body.
const RefreshTokenCookie = "refresh_token"

// OtpWindow is the validity window of a one-time passcode.
const OtpWindow = 60 * time.Second

// OtpCodeLength is the number of digits in a one-time passcode.
const OtpCodeLength = 6
