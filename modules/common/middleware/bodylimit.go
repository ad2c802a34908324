package middleware

import (
	"errors"
	"net/http"
)

// MaxBodyBytes caps every request body at limit bytes. Reads past the cap fail
// with *http.MaxBytesError; see IsBodyTooLarge.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsBodyTooLarge - MaxBodyBytes 한도 초과 에러인지 확인
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
