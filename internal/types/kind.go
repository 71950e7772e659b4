// Package types implements the core's type system: a hash-consed
// representation of qualified types with a canonical form that strips sugar
// for fast equality, while retaining the original written form for
// diagnostics.
//
// Like internal/decl's identifiers, a Type never holds a live reference
// into internal/decl — it holds an opaque DeclRef. This keeps the package
// dependency acyclic even though, semantically, a RecordDecl's field type
// can be the record itself (see spec.md §9 "Cyclic references").
package types

// Kind is the closed set of Type variants spec.md §3 names.
type Kind int

const (
	// Builtin covers void, the integer/floating ranks, bool, and the
	// character types.
	Builtin Kind = iota
	// Pointer is a pointer to a QualType.
	Pointer
	// LValueReference is a C++ "T&" reference.
	LValueReference
	// RValueReference is a C++ "T&&" reference.
	RValueReference
	// MemberPointer is a C++ pointer-to-member.
	MemberPointer
	// ConstantArray has a known constant element count; uniqued.
	ConstantArray
	// IncompleteArray has no specified count ("T[]"); uniqued.
	IncompleteArray
	// VariableArray has a runtime-computed count (C99 VLA); never uniqued.
	VariableArray
	// DependentSizedArray has a count that depends on a template
	// parameter; never uniqued.
	DependentSizedArray
	// Vector is a fixed-width SIMD vector type.
	Vector
	// ExtVector is Clang's "ext_vector_type" variant, which additionally
	// supports OpenCL-style swizzle access.
	ExtVector
	// FunctionProto has a known, typed parameter list.
	FunctionProto
	// FunctionNoProto is K&R-style: unknown parameter types.
	FunctionNoProto
	// Typedef is sugar naming another QualType; never canonical.
	Typedef
	// TypeOfExpr is "typeof(expr)"; never canonical.
	TypeOfExpr
	// TypeOfType is "typeof(type)"; never canonical.
	TypeOfType
	// Record is a struct/union/class.
	Record
	// Enum is an enumeration.
	Enum
	// Complex is a C99 "_Complex" of a real floating or integer type.
	Complex
	// TemplateTypeParm is an unresolved C++ template type parameter.
	TemplateTypeParm
	// TemplateSpecialization is a template applied to argument types; it
	// is always its own canonical form (no instantiated Record/Enum type is
	// built for it).
	TemplateSpecialization
	// DependentName is a C++ "typename N::X" whose meaning depends on a
	// template parameter.
	DependentName
	// ObjCInterface is an Objective-C "NSFoo" interface type, optionally
	// protocol-qualified.
	ObjCInterface
	// ObjCQualifiedID is Objective-C "id<Proto1,Proto2>".
	ObjCQualifiedID
	// BlockPointer is an Objective-C block-pointer type.
	BlockPointer
	// ExtQual wraps a base type with an address space and/or GC attribute.
	ExtQual
)

//go:generate stringer -type=Kind
func (k Kind) String() string {
	switch k {
	case Builtin:
		return "Builtin"
	case Pointer:
		return "Pointer"
	case LValueReference:
		return "LValueReference"
	case RValueReference:
		return "RValueReference"
	case MemberPointer:
		return "MemberPointer"
	case ConstantArray:
		return "ConstantArray"
	case IncompleteArray:
		return "IncompleteArray"
	case VariableArray:
		return "VariableArray"
	case DependentSizedArray:
		return "DependentSizedArray"
	case Vector:
		return "Vector"
	case ExtVector:
		return "ExtVector"
	case FunctionProto:
		return "FunctionProto"
	case FunctionNoProto:
		return "FunctionNoProto"
	case Typedef:
		return "Typedef"
	case TypeOfExpr:
		return "TypeOfExpr"
	case TypeOfType:
		return "TypeOfType"
	case Record:
		return "Record"
	case Enum:
		return "Enum"
	case Complex:
		return "Complex"
	case TemplateTypeParm:
		return "TemplateTypeParm"
	case TemplateSpecialization:
		return "TemplateSpecialization"
	case DependentName:
		return "DependentName"
	case ObjCInterface:
		return "ObjCInterface"
	case ObjCQualifiedID:
		return "ObjCQualifiedID"
	case BlockPointer:
		return "BlockPointer"
	case ExtQual:
		return "ExtQual"
	default:
		return "Kind(?)"
	}
}

// BuiltinKind distinguishes the fixed set of builtin types.
type BuiltinKind int

const (
	Void BuiltinKind = iota
	Bool
	Char
	SChar
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
	LongDouble
	// ObjCId/ObjCClass/ObjCSel are builtins in Objective-C mode.
	ObjCId
	ObjCClass
	ObjCSel
)

// ArraySizeModifier distinguishes the C "static"/"*" array-size annotations
// a parameter's array type can carry (e.g. "int a[static 4]", "int a[*]").
type ArraySizeModifier int

const (
	Normal ArraySizeModifier = iota
	Static
	Star
)

// RefQualifier distinguishes a member pointer / reference's lvalue vs
// rvalue-ness, reused for the Reference kind's is_lvalue flag in code that
// wants a named type rather than a bool.
type RefQualifier int

const (
	LValue RefQualifier = iota
	RValue
)

// GCAttr is the Objective-C garbage-collection attribute an ExtQual can
// carry (GCNone in non-GC code, which is effectively everything ccore's
// scope touches, but the spec lists it as a first-class ExtQual axis).
type GCAttr int

const (
	GCNone GCAttr = iota
	GCWeak
	GCStrong
)
