// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package warehouse

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrorClass buckets a warehouse failure by its upstream cause. The buckets
// are derived from message patterns, not error types: the BigQuery client
// surfaces most conditions as formatted googleapi errors whose text is the
// only stable discriminator across client versions.
type ErrorClass int

const (
	// ErrorUnclassified covers everything without a recognized pattern.
	ErrorUnclassified ErrorClass = iota

	// ErrorMissingTable means the events export table (or a shard of it)
	// does not exist, typically because the BigQuery export was never
	// enabled or has not produced data yet.
	ErrorMissingTable

	// ErrorPermissionDenied means the service account lacks access to the
	// dataset.
	ErrorPermissionDenied

	// ErrorCredential means the auth provider rejected the credentials.
	ErrorCredential
)

// Classify maps a warehouse error to its class and the HTTP status the
// boundary should return. Unclassified googleapi errors keep the explicit
// status they carry; everything else falls through to 500.
func Classify(err error) (ErrorClass, int) {
	if err == nil {
		return ErrorUnclassified, http.StatusOK
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "not found: table"):
		return ErrorMissingTable, http.StatusNotFound
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "accessdenied"):
		return ErrorPermissionDenied, http.StatusForbidden
	case strings.Contains(msg, "firebase"),
		strings.Contains(msg, "invalid_grant"),
		strings.Contains(msg, "oauth2"):
		return ErrorCredential, http.StatusUnauthorized
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code >= 400 {
		return ErrorUnclassified, gerr.Code
	}

	return ErrorUnclassified, http.StatusInternalServerError
}

// Message returns the caller-facing explanation for a classified failure.
// Unclassified errors surface their own text.
func Message(class ErrorClass, err error) string {
	switch class {
	case ErrorMissingTable:
		return "BigQuery table not found. Please ensure BigQuery export is enabled and data exists."
	case ErrorPermissionDenied:
		return "Permission denied. Check service account permissions."
	case ErrorCredential:
		return "Firebase authentication error"
	default:
		if err != nil {
			return err.Error()
		}
		return "Internal server error"
	}
}
