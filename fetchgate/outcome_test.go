/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutcomePartitioning(t *testing.T) {
	err1 := errors.New("timeout")
	err2 := errors.New("refused")
	resp0, resp2, resp4 := okResponse(), okResponse(), okResponse()
	outcomes := []Outcome{
		{Resource: "a", Response: resp0, Success: true, Index: 0},
		{Resource: "b", Err: err1, Index: 1},
		{Resource: "c", Response: resp2, Success: true, Index: 2},
		{Resource: "d", Err: err2, Index: 3},
		{Resource: "e", Response: resp4, Success: true, Index: 4},
	}

	succeeded := SuccessfulOutcomes(outcomes)
	require.Len(t, succeeded, 3)
	require.Equal(t, []int{0, 2, 4}, []int{succeeded[0].Index, succeeded[1].Index, succeeded[2].Index})

	failed := FailedOutcomes(outcomes)
	require.Len(t, failed, 2)
	require.Equal(t, []int{1, 3}, []int{failed[0].Index, failed[1].Index})

	// Every outcome lands in exactly one partition.
	require.Equal(t, len(outcomes), len(succeeded)+len(failed))

	require.Equal(t, []*http.Response{resp0, resp2, resp4}, Responses(outcomes))
	require.Equal(t, []error{err1, err2}, Errors(outcomes))
}

func TestOutcomePartitioningEmptyInput(t *testing.T) {
	require.Empty(t, SuccessfulOutcomes(nil))
	require.Empty(t, FailedOutcomes(nil))
	require.Empty(t, Responses(nil))
	require.Empty(t, Errors(nil))
}
