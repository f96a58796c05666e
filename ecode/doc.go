// Package ecode defines the error taxonomy shared by the OginiSearch driver.
//
// Two error classes cross package boundaries:
//
//   - APIError: an upstream 4xx/5xx response, carrying the HTTP status, an
//     optional machine error code and any structured details from the body.
//   - ConnectionError: a transport-level failure that survived the retry
//     policy, wrapping the last underlying error.
//
// # Checking errors
//
// Use the predicate helpers rather than type assertions:
//
//	if ecode.IsNotFound(err) {
//	    // index or document does not exist
//	}
//
//	if ecode.IsConnection(err) {
//	    // upstream unreachable, retries exhausted
//	}
//
// Batch operations never surface these directly; they are converted into
// structured result entries so processing can continue.
package ecode
