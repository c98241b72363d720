package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)

	local := LookupCost("llama3.2:3b-instruct")
	require.NotNil(t, local)
	assert.Zero(t, local.Cost(5000, 5000))

	assert.Nil(t, LookupCost("meta-llama/llama-3.1-8b-instruct:free"))
	assert.Nil(t, LookupCost("some-new-model"))
}
