package types

// ExprHandle stands in for an ast.Expr without types importing internal/ast:
// ast.Expr itself carries a QualType (spec.md §3), so types -> ast -> types
// would cycle. Only a handful of Type variants (VariableArray,
// DependentSizedArray's size expression; TypeOfExpr's operand) need to
// reference an expression at all, so they hold this opaque handle instead;
// internal/sema and internal/ast type-assert it back to ast.Expr when they
// need it. This is the same "identifier-like handle instead of a strong
// reference" discipline spec.md §9 prescribes for Type-to-Decl references,
// applied symmetrically to Type-to-Expr.
type ExprHandle any

// DeclRef is an opaque handle to a declaration owned by internal/decl.
// Type deliberately does not import internal/decl (which itself imports
// types, for QualType on VarDecl/FieldDecl/etc.) — holding a numeric handle
// instead of a live pointer breaks the cycle and matches spec.md §9's
// instruction that "Type nodes never strongly own Decls — they hold
// identifier-like handles."
type DeclRef uint32

// InvalidDeclRef is the zero value; no real Decl is ever assigned it.
const InvalidDeclRef DeclRef = 0

// Qualifiers is the 3-bit const/volatile/restrict set a QualType carries.
// Per spec.md §3, qualifier bits live on the reference (QualType), never on
// the Type itself — two qualifier-only-different QualTypes share one Type.
type Qualifiers uint8

const (
	Const Qualifiers = 1 << iota
	Volatile
	Restrict
)

// Has reports whether all bits in other are set in q.
func (q Qualifiers) Has(other Qualifiers) bool { return q&other == other }

// Union returns the qualifier set with both q's and other's bits.
func (q Qualifiers) Union(other Qualifiers) Qualifiers { return q | other }

// TemplateArgument is one argument to a template specialization: either a
// type argument or a (non-type) constant-expression argument. ccore keeps
// this minimal — enough to key and print specializations — rather than
// modeling C++'s full template-argument-kind lattice.
type TemplateArgument struct {
	IsType bool
	Type   QualType
	Expr   ExprHandle // non-type template argument, e.g. "Array<int, 4>"'s 4
}

// Type is one of the closed set of variants Kind enumerates. ccore
// represents it as a single struct with a Kind tag and variant-specific
// fields set only for the relevant Kind — a tagged union, per spec.md §9's
// Design Notes ("express Type as a sum-type... store one arena per
// variant-family and intern by a value-key"). Every Type carries a
// canonical handle (itself, iff self-canonical) and a dependent flag.
type Type struct {
	kind       Kind
	canonical  *Type
	dependent  bool
	incomplete bool

	// Builtin:
	builtinKind BuiltinKind

	// Pointer / LValueReference / RValueReference / MemberPointer /
	// BlockPointer / ExtQual: the type being pointed to / referenced /
	// wrapped.
	pointee QualType

	// MemberPointer: the class the pointer is relative to.
	memberClass *Type

	// ConstantArray / IncompleteArray / VariableArray /
	// DependentSizedArray / Vector / ExtVector / Complex: the element type.
	elem QualType

	arraySize    uint64            // ConstantArray
	arraySizeExp ExprHandle          // VariableArray / DependentSizedArray
	arrayMod     ArraySizeModifier // any array kind

	vectorWidth int // Vector / ExtVector: number of elements

	// FunctionProto / FunctionNoProto:
	result      QualType
	params      []QualType
	variadic    bool
	funcCVQuals Qualifiers

	// Typedef / Record / Enum / TemplateSpecialization(template) /
	// ObjCInterface:
	decl DeclRef

	// TypeOfExpr:
	typeOfExpr ExprHandle

	// TemplateTypeParm:
	templateDepth, templateIndex int

	// TemplateSpecialization:
	templateArgs []TemplateArgument

	// DependentName:
	dependentQualifier string
	dependentName      string

	// ObjCInterface / ObjCQualifiedID:
	objcProtocols []DeclRef
	objcQualified bool // "NSFoo<Proto>" vs plain "NSFoo"

	// ExtQual:
	addressSpace uint32
	gcAttr       GCAttr
}

// Kind returns the type's variant discriminator.
func (t *Type) Kind() Kind { return t.kind }

// BuiltinKind returns a Builtin type's specific kind.
func (t *Type) BuiltinKind() BuiltinKind { return t.builtinKind }

// IsIncompleteRecordOrEnum reports whether a Record or Enum type has been
// declared but not yet defined.
func (t *Type) IsIncompleteRecordOrEnum() bool { return t.incomplete }

// IsCanonical reports whether t is its own canonical form.
func (t *Type) IsCanonical() bool { return t.canonical == t }

// CanonicalType returns t's canonical form (itself, if self-canonical).
// Canonical idempotence (testable property 2) follows because every Type's
// canonical field is computed once, at construction, to point directly at
// a self-canonical Type — never at another non-canonical Type.
func (t *Type) CanonicalType() *Type { return t.canonical }

// IsDependent reports whether t transitively mentions a template
// parameter.
func (t *Type) IsDependent() bool { return t.dependent }

// Pointee returns the pointed-to/referenced/wrapped QualType for Pointer,
// LValueReference, RValueReference, MemberPointer, BlockPointer, and
// ExtQual types.
func (t *Type) Pointee() QualType { return t.pointee }

// MemberClass returns the containing class for a MemberPointer type.
func (t *Type) MemberClass() *Type { return t.memberClass }

// Element returns the element QualType for array/vector/complex types.
func (t *Type) Element() QualType { return t.elem }

// ArraySize returns a ConstantArray's element count.
func (t *Type) ArraySize() uint64 { return t.arraySize }

// ArraySizeExpr returns the size expression of a VariableArray or
// DependentSizedArray type.
func (t *Type) ArraySizeExpr() ExprHandle { return t.arraySizeExp }

// ArrayModifier returns the array's size-modifier annotation.
func (t *Type) ArrayModifier() ArraySizeModifier { return t.arrayMod }

// VectorWidth returns a Vector/ExtVector type's element count.
func (t *Type) VectorWidth() int { return t.vectorWidth }

// Result returns a function type's return QualType.
func (t *Type) Result() QualType { return t.result }

// Params returns a FunctionProto's parameter QualTypes, in order.
func (t *Type) Params() []QualType { return t.params }

// IsVariadic reports whether a FunctionProto ends in "...".
func (t *Type) IsVariadic() bool { return t.variadic }

// FunctionCVQuals returns a C++ member function's own cv-qualifiers.
func (t *Type) FunctionCVQuals() Qualifiers { return t.funcCVQuals }

// Decl returns the referenced declaration handle for Typedef, Record, Enum,
// TemplateSpecialization's template decl, and ObjCInterface; every other
// kind (TypeOfType and TemplateTypeParm included) returns InvalidDeclRef.
func (t *Type) Decl() DeclRef { return t.decl }

// TypeOfExprArg returns a TypeOfExpr type's operand expression.
func (t *Type) TypeOfExprArg() ExprHandle { return t.typeOfExpr }

// TemplateParmDepthIndex returns a TemplateTypeParm's (depth, index).
func (t *Type) TemplateParmDepthIndex() (int, int) { return t.templateDepth, t.templateIndex }

// TemplateArgs returns a TemplateSpecialization's argument list.
func (t *Type) TemplateArgs() []TemplateArgument { return t.templateArgs }

// DependentNameParts returns a DependentName type's qualifier and name,
// e.g. ("N", "X") for "typename N::X".
func (t *Type) DependentNameParts() (string, string) { return t.dependentQualifier, t.dependentName }

// ObjCProtocols returns the protocol list qualifying an ObjCInterface or
// ObjCQualifiedID type.
func (t *Type) ObjCProtocols() []DeclRef { return t.objcProtocols }

// IsObjCQualified reports whether an ObjCInterface type carries a
// "<Proto,...>" qualifier list.
func (t *Type) IsObjCQualified() bool { return t.objcQualified }

// AddressSpace returns an ExtQual's address-space annotation.
func (t *Type) AddressSpace() uint32 { return t.addressSpace }

// GCAttribute returns an ExtQual's Objective-C GC attribute.
func (t *Type) GCAttribute() GCAttr { return t.gcAttr }
