package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMake verifies instruction encoding: opcode byte plus big-endian
// operands at their defined widths.
func TestMake(t *testing.T) {
	tests := []struct {
		op       Opcode
		operands []int
		expected []byte
	}{
		{OpConstant, []int{65534}, []byte{byte(OpConstant), 255, 254}},
		{OpAdd, []int{}, []byte{byte(OpAdd)}},
		{OpGetLocal, []int{255}, []byte{byte(OpGetLocal), 255}},
		{OpClosure, []int{65534, 255}, []byte{byte(OpClosure), 255, 254, 255}},
		{OpJump, []int{12}, []byte{byte(OpJump), 0, 12}},
		{OpAnd, []int{7}, []byte{byte(OpAnd), 0, 7}},
	}

	for _, tt := range tests {
		instruction := Make(tt.op, tt.operands...)
		assert.Equal(t, tt.expected, instruction)
	}
}

// TestReadOperands round-trips operands through Make and back.
func TestReadOperands(t *testing.T) {
	tests := []struct {
		op        Opcode
		operands  []int
		bytesRead int
	}{
		{OpConstant, []int{65535}, 2},
		{OpGetLocal, []int{255}, 1},
		{OpClosure, []int{65535, 255}, 3},
		{OpGetBuiltin, []int{5}, 1},
	}

	for _, tt := range tests {
		instruction := Make(tt.op, tt.operands...)

		def, err := Lookup(byte(tt.op))
		require.NoError(t, err)

		operandsRead, n := ReadOperands(def, instruction[1:])
		assert.Equal(t, tt.bytesRead, n)
		assert.Equal(t, tt.operands, operandsRead)
	}
}

// TestInstructionsString verifies the disassembly listing format.
func TestInstructionsString(t *testing.T) {
	instructions := []Instructions{
		Make(OpAdd),
		Make(OpGetLocal, 1),
		Make(OpConstant, 2),
		Make(OpConstant, 65535),
		Make(OpClosure, 65535, 255),
	}

	expected := `0000 OpAdd
0001 OpGetLocal 1
0003 OpConstant 2
0006 OpConstant 65535
0009 OpClosure 65535 255
`

	concatted := Instructions{}
	for _, ins := range instructions {
		concatted = append(concatted, ins...)
	}

	assert.Equal(t, expected, concatted.String())
}

// TestLookup_Undefined verifies unknown opcode bytes report an error.
func TestLookup_Undefined(t *testing.T) {
	_, err := Lookup(255)
	assert.Error(t, err)
}
