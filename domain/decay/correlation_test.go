package decay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"factorgate/domain/core"
)

func TestCorrelationMatrixGetIsOrderInsensitive(t *testing.T) {
	a := core.FactorID("factor-a")
	b := core.FactorID("factor-b")

	m := make(CorrelationMatrix)
	m.Set(a, b, 0.85)

	assert.Equal(t, 0.85, m.Get(a, b))
	assert.Equal(t, 0.85, m.Get(b, a))
}

func TestCorrelationMatrixMissingPairReadsZero(t *testing.T) {
	m := make(CorrelationMatrix)
	m.Set(core.FactorID("factor-a"), core.FactorID("factor-b"), 0.5)

	assert.Equal(t, 0.0, m.Get(core.FactorID("factor-a"), core.FactorID("factor-c")))
	assert.Equal(t, 0.0, m.Get(core.FactorID("factor-x"), core.FactorID("factor-y")))
}
