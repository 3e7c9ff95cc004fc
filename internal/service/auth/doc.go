// Package auth issues and verifies HMAC-signed JWT access and refresh
// tokens and compares bcrypt password hashes.
package auth
