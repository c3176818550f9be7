// Package openapi describes the feedback submission endpoint as an OpenAPI
// 3 document built with kin-openapi. The request schema is derived from the
// same rule table the validator runs, so patterns, length limits and the
// required list cannot drift from the server-side checks.
package openapi
