package ssa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeMismatchCarriesNoStackTrace(t *testing.T) {
	d := typeMismatch(NoLocation, "wanted %s got %s", "int32", "float32")
	require.Equal(t, TypeMismatch, d.Kind)
	require.Nil(t, d.cause)
	require.Contains(t, d.Error(), "wanted int32 got float32")
}

func TestInvariantViolationPanicsWithStackedDiagnostic(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		d, ok := r.(*Diagnostic)
		require.True(t, ok)
		require.Equal(t, InvariantViolation, d.Kind)
		require.NotNil(t, d.cause)
		require.Contains(t, d.Error(), "bad state")
	}()
	invariantViolation(NoLocation, "bad state: %d", 42)
}

func TestDiagnosticUnwrapReachesCause(t *testing.T) {
	defer func() {
		r := recover()
		d := r.(*Diagnostic)
		require.NotNil(t, d.Unwrap())
	}()
	invariantViolation(NoLocation, "boom")
}

func TestDiagnosticKindStringNames(t *testing.T) {
	require.Equal(t, "TypeMismatch", TypeMismatch.String())
	require.Equal(t, "UnsupportedOperation", UnsupportedOperation.String())
	require.Equal(t, "InvariantViolation", InvariantViolation.String())
	require.Equal(t, "NotInitialized", NotInitialized.String())
}
