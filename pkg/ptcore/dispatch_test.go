package ptcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64p(v float64) *float64 { return &v }

func TestDispatchRejectsUnknownMethod(t *testing.T) {
	_, err := Dispatch(Method("bogus"), Dataset{}, AlgorithmAParams{}, nil)
	require.Error(t, err)
	assert.IsType(t, InvalidParameter{}, err)
}

func TestDispatchAMethodUsesAlgorithmA(t *testing.T) {
	dataset := Dataset{
		Ids:     []string{"L1", "L2", "L3", "L4", "L5"},
		Results: []float64{9.8, 9.9, 10.0, 10.1, 10.2},
	}
	av, err := Dispatch(MethodA, dataset, AlgorithmAParams{}, nil)
	require.NoError(t, err)

	assert.Equal(t, MethodA, av.Method)
	assert.InDelta(t, 10.0, av.XPt, 1e-9)
	require.NotNil(t, av.SStar)
	require.NotNil(t, av.PUsed)
	require.NotNil(t, av.Converged)
	assert.True(t, *av.Converged)
	assert.Equal(t, 5, *av.PUsed)
	assert.Greater(t, av.UXPt, 0.0)
}

// E4: CRM method.
func TestDispatchE4CRMMethod(t *testing.T) {
	dataset := Dataset{
		Ids:     []string{"L1", "L2", "L3", "L4", "L5"},
		Results: []float64{12.1, 12.5, 12.0, 12.9, 12.2},
	}
	supplied := &SuppliedValue{Value: 12.34, Uncertainty: 0.05}
	av, err := Dispatch(MethodCRM, dataset, AlgorithmAParams{}, supplied)
	require.NoError(t, err)

	assert.Equal(t, MethodCRM, av.Method)
	assert.Equal(t, 12.34, av.XPt)
	assert.Equal(t, 0.05, av.UXPt)
	assert.Nil(t, av.SStar)
	assert.Nil(t, av.PUsed)
	assert.Nil(t, av.Iterations)
}

func TestDispatchNonAMethodRequiresSuppliedValue(t *testing.T) {
	_, err := Dispatch(MethodFormulation, Dataset{}, AlgorithmAParams{}, nil)
	require.Error(t, err)
	assert.Equal(t, MissingMethodInput{Method: MethodFormulation}, err)
}

func TestDispatchRejectsNegativeSuppliedUncertainty(t *testing.T) {
	supplied := &SuppliedValue{Value: 5, Uncertainty: -0.1}
	_, err := Dispatch(MethodExpert, Dataset{}, AlgorithmAParams{}, supplied)
	require.Error(t, err)
	assert.IsType(t, InvalidParameter{}, err)
}

func TestDispatchRejectsInvalidAlgorithmAParams(t *testing.T) {
	dataset := Dataset{Ids: []string{"L1", "L2"}, Results: []float64{1, 2}}
	_, err := Dispatch(MethodA, dataset, AlgorithmAParams{Tolerance: -1}, nil)
	require.Error(t, err)
}
