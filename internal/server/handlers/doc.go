// Package handlers implements the HTTP handlers for the public site and the
// admin surface. Site handlers compose the loader, the WordPress client and
// the view templates; admin handlers expose health, status and cache
// operations as JSON.
package handlers
