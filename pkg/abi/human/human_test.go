package human

import (
	"testing"

	"github.com/alanyoungcy/ethcore/pkg/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleFunction(t *testing.T) {
	items, err := Parse("function transfer(address to, uint256 amount) returns (bool)")
	require.NoError(t, err)
	require.Len(t, items, 1)

	fn := items[0]
	assert.Equal(t, ItemFunction, fn.Kind)
	assert.Equal(t, "transfer", fn.Name)
	require.Len(t, fn.Inputs, 2)
	assert.Equal(t, abi.KindAddress, fn.Inputs[0].Type)
	assert.Equal(t, "to", fn.Inputs[0].Name)
	assert.Equal(t, abi.KindUint, fn.Inputs[1].Type)
	assert.Equal(t, 256, fn.Inputs[1].BitSize)
	require.Len(t, fn.Outputs, 1)
	assert.Equal(t, abi.KindBool, fn.Outputs[0].Type)
}

func TestParseFunctionWithMutabilityAndVisibility(t *testing.T) {
	items, err := Parse("function balanceOf(address owner) external view returns (uint256)")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "view", items[0].Mutability)
}

func TestParseEventWithIndexedAndAnonymous(t *testing.T) {
	items, err := Parse("event Transfer(address indexed from, address indexed to, uint256 amount) anonymous")
	require.NoError(t, err)
	require.Len(t, items, 1)

	ev := items[0]
	assert.Equal(t, ItemEvent, ev.Kind)
	assert.True(t, ev.Anonymous)
	assert.True(t, ev.Inputs[0].Indexed)
	assert.True(t, ev.Inputs[1].Indexed)
	assert.False(t, ev.Inputs[2].Indexed)
}

func TestParseErrorDeclaration(t *testing.T) {
	items, err := Parse("error InsufficientBalance(uint256 available, uint256 required)")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ItemError, items[0].Kind)
	assert.Equal(t, "InsufficientBalance", items[0].Name)
}

func TestParseConstructor(t *testing.T) {
	items, err := Parse("constructor(address owner) payable")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ItemConstructor, items[0].Kind)
	assert.Equal(t, "payable", items[0].Mutability)
}

func TestParseFallbackAndReceive(t *testing.T) {
	items, err := Parse("fallback(); receive();")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, ItemFallback, items[0].Kind)
	assert.Equal(t, ItemReceive, items[1].Kind)
}

func TestParseArraysAndNestedArrays(t *testing.T) {
	items, err := Parse("function f(uint256[] a, address[3] b)")
	require.NoError(t, err)
	inputs := items[0].Inputs
	assert.Equal(t, abi.KindDynamicArray, inputs[0].Type)
	assert.Equal(t, abi.KindUint, inputs[0].Elem.Type)
	assert.Equal(t, abi.KindFixedArray, inputs[1].Type)
	assert.Equal(t, 3, inputs[1].ArrayLen)
	assert.Equal(t, abi.KindAddress, inputs[1].Elem.Type)
}

func TestParseInlineTupleType(t *testing.T) {
	items, err := Parse("function f((address,uint256) pair)")
	require.NoError(t, err)
	p := items[0].Inputs[0]
	assert.Equal(t, abi.KindTuple, p.Type)
	require.Len(t, p.Components, 2)
	assert.Equal(t, abi.KindAddress, p.Components[0].Type)
	assert.Equal(t, abi.KindUint, p.Components[1].Type)
}

func TestParseStructDeclarationAndReference(t *testing.T) {
	src := `
		struct Point { uint256 x; uint256 y; }
		function move(Point p)
	`
	items, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, items, 1) // struct decl itself is consumed, not emitted

	p := items[0].Inputs[0]
	assert.Equal(t, abi.KindTuple, p.Type)
	require.Len(t, p.Components, 2)
	assert.Equal(t, "x", p.Components[0].Name)
	assert.Equal(t, "y", p.Components[1].Name)
}

func TestParseRejectsDuplicateStruct(t *testing.T) {
	src := `
		struct Point { uint256 x; }
		struct Point { uint256 y; }
	`
	_, err := Parse(src)
	assert.Error(t, err)
}

func TestParseRejectsUnknownType(t *testing.T) {
	_, err := Parse("function f(Widget w)")
	assert.Error(t, err)
}

func TestParseRejectsDataLocationModifier(t *testing.T) {
	_, err := Parse("function f(uint256[] memory a)")
	assert.Error(t, err)
}

func TestParseRejectsEmptyReturnsClause(t *testing.T) {
	_, err := Parse("function f() returns ()")
	assert.Error(t, err)
}

func TestParseRejectsInvalidUintWidth(t *testing.T) {
	_, err := Parse("function f(uint7 a)")
	assert.Error(t, err)
}

func TestParseRejectsInvalidBytesNWidth(t *testing.T) {
	_, err := Parse("function f(bytes33 a)")
	assert.Error(t, err)
}

func TestParseMultipleDeclarationsSeparatedBySemicolons(t *testing.T) {
	src := "function a(); function b(uint256 x);"
	items, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, "b", items[1].Name)
}

func TestParseRejectsUnexpectedCharacter(t *testing.T) {
	_, err := Parse("function f(uint256 a) % extra")
	assert.Error(t, err)
}
