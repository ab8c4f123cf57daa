/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import "net/http"

// Outcome is the terminal success/failure record for one request within a batch.
// Exactly one of Response and Err is set; Success is true iff Response is set.
type Outcome struct {
	// Resource is the submitted resource descriptor (URL).
	Resource string

	// Options are the per-request options the entry was submitted with.
	Options RequestOptions

	// Response is the transport response. Nil when the request failed.
	Response *http.Response

	// Err is the failure cause. Nil when the request succeeded.
	Err error

	// Success is true iff the request settled with a response.
	Success bool

	// Index is the position of the entry in the submitted list,
	// independent of completion order.
	Index int
}

// SuccessfulOutcomes returns the outcomes with Success=true preserving relative order.
func SuccessfulOutcomes(outcomes []Outcome) []Outcome {
	res := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Success {
			res = append(res, o)
		}
	}
	return res
}

// FailedOutcomes returns the outcomes with Success=false preserving relative order.
func FailedOutcomes(outcomes []Outcome) []Outcome {
	res := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Success {
			res = append(res, o)
		}
	}
	return res
}

// Responses extracts non-nil responses preserving relative order.
func Responses(outcomes []Outcome) []*http.Response {
	res := make([]*http.Response, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Response != nil {
			res = append(res, o.Response)
		}
	}
	return res
}

// Errors extracts non-nil errors preserving relative order.
func Errors(outcomes []Outcome) []error {
	res := make([]error, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			res = append(res, o.Err)
		}
	}
	return res
}
