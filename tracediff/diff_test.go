package tracediff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareReportsNoDivergenceForIdenticalTraces(t *testing.T) {
	trace := `{"pc":0,"opcode":"addi","nextPc":4}` + "\n" + `{"pc":4,"opcode":"ebreak","nextPc":4}` + "\n"
	div, err := Compare(strings.NewReader(trace), strings.NewReader(trace))
	require.NoError(t, err)
	require.Nil(t, div)
}

func TestCompareFindsFirstDivergentLine(t *testing.T) {
	a := `{"pc":0,"opcode":"addi","nextPc":4}` + "\n" + `{"pc":4,"opcode":"addi","nextPc":8}` + "\n"
	b := `{"pc":0,"opcode":"addi","nextPc":4}` + "\n" + `{"pc":4,"opcode":"ebreak","nextPc":4}` + "\n"

	div, err := Compare(strings.NewReader(a), strings.NewReader(b))
	require.NoError(t, err)
	require.NotNil(t, div)
	require.Equal(t, 2, div.Line)
}

func TestCompareReportsLengthMismatch(t *testing.T) {
	a := `{"pc":0,"opcode":"addi","nextPc":4}` + "\n"
	b := `{"pc":0,"opcode":"addi","nextPc":4}` + "\n" + `{"pc":4,"opcode":"ebreak","nextPc":4}` + "\n"

	div, err := Compare(strings.NewReader(a), strings.NewReader(b))
	require.NoError(t, err)
	require.NotNil(t, div)
	require.Equal(t, 2, div.Line)
	require.Contains(t, div.Detail, "different lengths")
}
