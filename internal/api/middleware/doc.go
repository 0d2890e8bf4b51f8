// Package middleware contains the stages of the request pipeline that run
// before a route handler: tracing, request logging, panic recovery, security
// headers, JSON body decoding and API key authentication.
//
// Every stage reports failures through shared.RespondWithAPIError and never
// formats an error response itself.
package middleware
