package ssa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeclareMethodInternsByDeclaration(t *testing.T) {
	ctx := NewContext(newTestTypes())
	i32 := ctx.Types().Primitive(BasicValueTypeInt32)
	decl := MethodDecl{Name: "f", ParamTypes: []TypeRef{i32}, ReturnType: i32}

	first, created := ctx.DeclareMethod(decl)
	require.True(t, created)
	require.True(t, first.Handle.Valid())

	second, created := ctx.DeclareMethod(decl)
	require.False(t, created)
	require.Equal(t, first.Handle, second.Handle)
}

func TestDeclareMethodDistinguishesByParamTypes(t *testing.T) {
	ctx := NewContext(newTestTypes())
	i32 := ctx.Types().Primitive(BasicValueTypeInt32)
	i1 := ctx.Types().Primitive(BasicValueTypeInt1)

	a, _ := ctx.DeclareMethod(MethodDecl{Name: "f", ParamTypes: []TypeRef{i32}})
	b, _ := ctx.DeclareMethod(MethodDecl{Name: "f", ParamTypes: []TypeRef{i1}})

	require.NotEqual(t, a.Handle, b.Handle)
}

func TestFinalizeMethodBuilderOfUndeclaredMethodErrors(t *testing.T) {
	ctx := NewContext(newTestTypes())
	decl := MethodDecl{Name: "never_declared"}

	_, err := ctx.FinalizeMethodBuilder(decl, nil, nil, nil)
	require.Error(t, err)

	diag, ok := err.(*Diagnostic)
	require.True(t, ok)
	require.Equal(t, InvariantViolation, diag.Kind)
}

func TestFinalizeMethodBuilderAdvancesGeneration(t *testing.T) {
	ctx := NewContext(newTestTypes())
	decl := MethodDecl{Name: "f"}
	before := ctx.CurrentGeneration()

	ctx.DeclareMethod(decl)
	_, err := ctx.FinalizeMethodBuilder(decl, nil, nil, nil)
	require.NoError(t, err)

	require.Equal(t, before+1, ctx.CurrentGeneration())
}

func TestNewNodeMarkerIsMonotonicallyDistinct(t *testing.T) {
	ctx := NewContext(newTestTypes())
	a := ctx.NewNodeMarker()
	b := ctx.NewNodeMarker()
	require.NotEqual(t, a, b)
	require.Greater(t, b, a)
}

func TestLookupMethodFindsDeclaredMethod(t *testing.T) {
	ctx := NewContext(newTestTypes())
	decl := MethodDecl{Name: "f"}
	ctx.DeclareMethod(decl)

	m, ok := ctx.LookupMethod(decl)
	require.True(t, ok)
	require.Equal(t, decl, m.Decl)

	_, ok = ctx.LookupMethod(MethodDecl{Name: "missing"})
	require.False(t, ok)
}
