// Package errors provides structured errors with stable codes, causes,
// and metadata. Domain and repository code returns these so callers can
// branch on the code (IsNotFound, IsInvalidArgument, ...) without string
// matching, and the HTTP layer can map codes to status codes.
package errors
