package faults

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		op       string
		expected Kind
	}{
		{
			name:     "invalid token",
			err:      New(CauseInvalidToken, 401, "Invalid access token."),
			op:       "authentication check",
			expected: KindAuthentication,
		},
		{
			name:     "unauthorized submissions",
			err:      New(CauseUnauthorized, 401, "user not authorized to perform that action"),
			op:       "class submission download",
			expected: KindStudentLimitation,
		},
		{
			name:     "unauthorized file",
			err:      New(CauseUnauthorized, 401, ""),
			op:       "course file download",
			expected: KindStudentLimitation,
		},
		{
			name:     "unauthorized elsewhere",
			err:      New(CauseUnauthorized, 401, ""),
			op:       "module listing",
			expected: KindAuthorization,
		},
		{
			name:     "forbidden",
			err:      New(CauseForbidden, 403, ""),
			op:       "page listing",
			expected: KindStudentLimitation,
		},
		{
			name:     "not found",
			err:      New(CauseNotFound, 404, "The specified resource does not exist."),
			op:       "module file lookup",
			expected: KindNotFound,
		},
		{
			name:     "remote error",
			err:      New(CauseRemote, 500, "internal server error"),
			op:       "assignment listing",
			expected: KindCanvasError,
		},
		{
			name:     "wrapped fault",
			err:      fmt.Errorf("list submissions: %w", New(CauseUnauthorized, 401, "")),
			op:       "Submission Retrieval",
			expected: KindStudentLimitation,
		},
		{
			name:     "transport failure",
			err:      errors.New("dial tcp: connection refused"),
			op:       "assignment listing",
			expected: KindUnknown,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			kind, message := Classify(test.err, test.op)
			require.Equal(t, test.expected, kind)
			require.NotEmpty(t, message)
		})
	}
}

func TestIsFatal(t *testing.T) {
	fatal := map[Kind]bool{
		KindAuthentication:    true,
		KindAuthorization:     true,
		KindCanvasError:       true,
		KindStudentLimitation: false,
		KindNotFound:          false,
		KindUnknown:           false,
	}
	for kind, expected := range fatal {
		require.Equal(t, expected, IsFatal(kind), "kind %s", kind)
	}
}

func TestFaultError(t *testing.T) {
	require.Equal(t, "forbidden (status 403)", New(CauseForbidden, 403, "").Error())
	require.Equal(
		t,
		"resource does not exist (status 404): gone",
		New(CauseNotFound, 404, "gone").Error(),
	)
}
