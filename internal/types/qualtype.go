package types

// QualType is a (Type, Qualifiers) pair: a reference to a Type plus the
// const/volatile/restrict bits spec.md §3 requires live on the reference,
// never on the Type itself. Go has no safe way to steal spare bits out of a
// pointer the way the original packs them into one machine word, so this is
// a two-field struct instead — semantically identical (qualifier-only
// differences never allocate a new Type; equality is a plain struct
// compare), just not bit-packed. See DESIGN.md.
type QualType struct {
	T     *Type
	Quals Qualifiers
}

// IsNull reports whether qt refers to no type at all (the zero value).
func (qt QualType) IsNull() bool { return qt.T == nil }

// WithQualifiers returns qt with its qualifier set replaced by quals.
func (qt QualType) WithQualifiers(quals Qualifiers) QualType {
	return QualType{T: qt.T, Quals: quals}
}

// IsMoreQualifiedThan reports whether qt's qualifier set is a strict
// superset of other's.
func (qt QualType) IsMoreQualifiedThan(other QualType) bool {
	return qt.Quals != other.Quals && qt.Quals.Has(other.Quals)
}

// IsAtLeastAsQualifiedAs reports whether qt's qualifier set is a superset
// of (or equal to) other's.
func (qt QualType) IsAtLeastAsQualifiedAs(other QualType) bool {
	return qt.Quals.Has(other.Quals)
}

// GetDesugaredType unwraps exactly one level of sugar (Typedef, TypeOfExpr,
// TypeOfType), preserving qualifiers. Distinct from GetCanonicalType, which
// strips every level transitively. A non-sugar type desugars to itself.
func (qt QualType) GetDesugaredType() QualType {
	switch qt.T.kind {
	case Typedef:
		return qt.T.pointee.WithQualifiers(qt.T.pointee.Quals.Union(qt.Quals))
	case TypeOfExpr, TypeOfType:
		return qt.T.pointee.WithQualifiers(qt.T.pointee.Quals.Union(qt.Quals))
	default:
		return qt
	}
}

// GetCanonicalType transitively strips all sugar, yielding the equality
// representative for qt's type class, with qt's own qualifiers folded in
// (the qualifier law, testable property 3:
// unqualified(T).canonical == canonical(T).unqualified).
func (qt QualType) GetCanonicalType() QualType {
	return QualType{T: qt.T.canonical, Quals: qt.Quals.Union(qt.T.canonical.ownQualifiers())}
}

// ownQualifiers returns zero for every Type. Canonical Types never carry
// sugar; an ExtQual wrapper is itself canonical when its base is, but what
// it adds (address space, GC attribute) is not a CVR bit, and its base's
// own qualifiers stay on the wrapped QualType rather than being folded
// into the result here.
func (t *Type) ownQualifiers() Qualifiers {
	return 0
}

// GetUnqualifiedType drops qt's CVR qualifiers and, if the outermost type
// is an ExtQual wrapper, unwraps that too.
func (qt QualType) GetUnqualifiedType() QualType {
	if qt.T.kind == ExtQual {
		return QualType{T: qt.T.pointee.T, Quals: 0}
	}
	return QualType{T: qt.T, Quals: 0}
}

// GetNonReferenceType returns the referent of a reference type, or qt
// itself if qt is not a reference.
func (qt QualType) GetNonReferenceType() QualType {
	c := qt.GetCanonicalType()
	if c.T.kind == LValueReference || c.T.kind == RValueReference {
		return c.T.pointee
	}
	return qt
}

// --- Structural predicates. All predicates classify the canonical type
// modulo qualifiers, per spec.md §4.2. ---

func (qt QualType) canon() Kind { return qt.GetCanonicalType().T.kind }

func (qt QualType) IsPointerType() bool       { return qt.canon() == Pointer }
func (qt QualType) IsReferenceType() bool     { k := qt.canon(); return k == LValueReference || k == RValueReference }
func (qt QualType) IsLValueReferenceType() bool { return qt.canon() == LValueReference }
func (qt QualType) IsRValueReferenceType() bool { return qt.canon() == RValueReference }
func (qt QualType) IsMemberPointerType() bool { return qt.canon() == MemberPointer }
func (qt QualType) IsArrayType() bool {
	switch qt.canon() {
	case ConstantArray, IncompleteArray, VariableArray, DependentSizedArray:
		return true
	}
	return false
}
func (qt QualType) IsIncompleteArrayType() bool { return qt.canon() == IncompleteArray }
func (qt QualType) IsConstantArrayType() bool   { return qt.canon() == ConstantArray }
func (qt QualType) IsVariablyModifiedType() bool {
	switch qt.canon() {
	case VariableArray, DependentSizedArray:
		return true
	}
	return false
}
func (qt QualType) IsVectorType() bool    { k := qt.canon(); return k == Vector || k == ExtVector }
func (qt QualType) IsFunctionType() bool  { k := qt.canon(); return k == FunctionProto || k == FunctionNoProto }
func (qt QualType) IsRecordType() bool    { return qt.canon() == Record }
func (qt QualType) IsEnumeralType() bool  { return qt.canon() == Enum }
func (qt QualType) IsComplexType() bool   { return qt.canon() == Complex }
func (qt QualType) IsObjCInterfaceType() bool { return qt.canon() == ObjCInterface }
func (qt QualType) IsObjCQualifiedIDType() bool { return qt.canon() == ObjCQualifiedID }
func (qt QualType) IsBlockPointerType() bool { return qt.canon() == BlockPointer }

// IsVoidType reports whether qt is exactly "void" (no pointer, no
// qualifiers implied).
func (qt QualType) IsVoidType() bool {
	ct := qt.GetCanonicalType().T
	return ct.kind == Builtin && ct.builtinKind == Void
}

// IsIncompleteType reports the C99 "incomplete type" category: void, an
// incomplete array, or a record/enum that has been declared but not yet
// defined (IsIncomplete set at construction, completed in place when the
// definition is seen).
func (qt QualType) IsIncompleteType() bool {
	ct := qt.GetCanonicalType().T
	switch ct.kind {
	case Builtin:
		return ct.builtinKind == Void
	case IncompleteArray:
		return true
	case Record, Enum:
		return ct.incomplete
	}
	return false
}

// IsObjectType reports the C99 "object type" category: any complete type
// that is not a function type.
func (qt QualType) IsObjectType() bool {
	return !qt.IsFunctionType() && !qt.canonEqualsVoid() && !qt.IsIncompleteType()
}

func (qt QualType) canonEqualsVoid() bool { return qt.IsVoidType() }

// IsIntegerType reports whether the canonical type is a C99 integer type:
// bool, char, or a signed/unsigned integer rank, or an enum (enums decay to
// their underlying integer type for arithmetic purposes).
func (qt QualType) IsIntegerType() bool {
	ct := qt.GetCanonicalType().T
	if ct.kind == Enum {
		return true
	}
	if ct.kind != Builtin {
		return false
	}
	switch ct.builtinKind {
	case Bool, Char, SChar, UChar, Short, UShort, Int, UInt, Long, ULong, LongLong, ULongLong:
		return true
	}
	return false
}

// IsRealFloatingType reports whether the canonical type is float, double,
// or long double (excluding _Complex).
func (qt QualType) IsRealFloatingType() bool {
	ct := qt.GetCanonicalType().T
	if ct.kind != Builtin {
		return false
	}
	switch ct.builtinKind {
	case Float, Double, LongDouble:
		return true
	}
	return false
}

// IsArithmeticType reports integer, real-floating, or complex.
func (qt QualType) IsArithmeticType() bool {
	return qt.IsIntegerType() || qt.IsRealFloatingType() || qt.IsComplexType()
}

// IsScalarType reports arithmetic, pointer, member-pointer, block-pointer,
// or one of the ObjC id/Class/SEL builtin types.
func (qt QualType) IsScalarType() bool {
	return qt.IsArithmeticType() || qt.IsPointerType() || qt.IsMemberPointerType() ||
		qt.IsBlockPointerType() || qt.isObjCIDOrClassOrSel()
}

func (qt QualType) isObjCIDOrClassOrSel() bool {
	ct := qt.GetCanonicalType().T
	return ct.kind == Builtin && (ct.builtinKind == ObjCId || ct.builtinKind == ObjCClass || ct.builtinKind == ObjCSel)
}

// IsAggregateType reports whether the canonical type is an array or a
// record with no user-declared constructor (ccore does not track
// constructors, so every Record is treated as an aggregate).
func (qt QualType) IsAggregateType() bool {
	return qt.IsArrayType() || qt.IsRecordType()
}

// IsDependentType reports whether qt's type or its qualifiers mention a
// template parameter.
func (qt QualType) IsDependentType() bool { return qt.T.dependent }
