package common

// AuthorizationHeader is the HTTP header carrying the bearer token on
// outbound requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token inside the Authorization header.
const BearerPrefix = "Bearer "
