// Package common contains shared constants and sentinel errors used across
// claimcheck components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

// MediaTypePDF is the media type declared for every staged claim document.
const MediaTypePDF = "application/pdf"
