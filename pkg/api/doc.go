// Package api defines the bubbl.v1 request and response messages exchanged
// over Connect. Messages are plain structs encoded as JSON by the codec in
// package apiconnect.
package api
