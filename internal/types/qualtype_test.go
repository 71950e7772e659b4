package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalarAndArithmeticPredicates(t *testing.T) {
	tc := NewTypeContext()
	intTy := tc.GetBuiltinType(Int)
	floatTy := tc.GetBuiltinType(Float)
	voidTy := tc.GetBuiltinType(Void)
	ptrTy := tc.GetPointer(intTy)

	assert.True(t, intTy.IsIntegerType())
	assert.True(t, intTy.IsArithmeticType())
	assert.True(t, intTy.IsScalarType())
	assert.False(t, intTy.IsRealFloatingType())

	assert.True(t, floatTy.IsRealFloatingType())
	assert.True(t, floatTy.IsArithmeticType())

	assert.True(t, voidTy.IsVoidType())
	assert.False(t, voidTy.IsScalarType())
	assert.True(t, voidTy.IsIncompleteType())

	assert.True(t, ptrTy.IsPointerType())
	assert.True(t, ptrTy.IsScalarType())
	assert.False(t, ptrTy.IsArithmeticType())
}

func TestArrayPredicates(t *testing.T) {
	tc := NewTypeContext()
	intTy := tc.GetBuiltinType(Int)

	ca := tc.GetConstantArray(intTy, 4, Normal)
	assert.True(t, ca.IsArrayType())
	assert.True(t, ca.IsConstantArrayType())
	assert.False(t, ca.IsIncompleteType())

	ia := tc.GetIncompleteArray(intTy, Normal)
	assert.True(t, ia.IsArrayType())
	assert.True(t, ia.IsIncompleteArrayType())
	assert.True(t, ia.IsIncompleteType())

	va := tc.GetVariableArray(intTy, "n", Normal)
	assert.True(t, va.IsArrayType())
	assert.True(t, va.IsVariablyModifiedType())
}

func TestQualifierOrdering(t *testing.T) {
	tc := NewTypeContext()
	intTy := tc.GetBuiltinType(Int)

	plain := intTy
	cv := intTy.WithQualifiers(Const | Volatile)
	c := intTy.WithQualifiers(Const)

	assert.True(t, cv.IsMoreQualifiedThan(c))
	assert.True(t, cv.IsAtLeastAsQualifiedAs(c))
	assert.False(t, c.IsMoreQualifiedThan(cv))
	assert.True(t, plain.IsAtLeastAsQualifiedAs(plain))
	assert.False(t, plain.IsMoreQualifiedThan(plain))
}

func TestReferencePredicatesAndNonReferenceType(t *testing.T) {
	tc := NewTypeContext()
	intTy := tc.GetBuiltinType(Int)

	lref := tc.GetLValueReference(intTy)
	assert.True(t, lref.IsReferenceType())
	assert.True(t, lref.IsLValueReferenceType())
	assert.False(t, lref.IsRValueReferenceType())
	assert.Equal(t, intTy, lref.GetNonReferenceType())

	rref := tc.GetRValueReference(intTy)
	assert.True(t, rref.IsRValueReferenceType())

	assert.Equal(t, intTy, intTy.GetNonReferenceType())
}

func TestDependentTemplateTypeParmIsDependent(t *testing.T) {
	tc := NewTypeContext()
	parm := tc.GetTemplateTypeParm(0, 0)
	assert.True(t, parm.IsDependentType())

	spec := tc.GetTemplateSpecialization(DeclRef(3), []TemplateArgument{{IsType: true, Type: parm}})
	assert.True(t, spec.IsDependentType())

	ptrToParm := tc.GetPointer(parm)
	assert.True(t, ptrToParm.IsDependentType())
}

func TestEnumIsIntegerType(t *testing.T) {
	tc := NewTypeContext()
	e := tc.GetEnum(DeclRef(9))
	assert.True(t, e.IsIntegerType())
	assert.True(t, e.IsEnumeralType())
}

func TestRecordIsAggregate(t *testing.T) {
	tc := NewTypeContext()
	r := tc.GetRecord(DeclRef(11))
	assert.True(t, r.IsAggregateType())
	assert.True(t, r.IsRecordType())
}
