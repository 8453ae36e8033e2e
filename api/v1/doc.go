// Package v1 holds the request and response bodies of the /api/v1 HTTP API.
// Records of the store collections are exchanged as their models types.
package v1
