package decl

import (
	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/types"
)

// DeclID is an opaque handle to a Decl owned by a DeclTable's arena.
// types.DeclRef is the same kind of handle exposed across the
// types/decl boundary; DeclID is the decl package's own type of the same
// width (a uint32 is plenty for either, but keeping them distinct types makes a
// stray cross-package handle mixup a compile error instead of a silent
// bug).
type DeclID uint32

// InvalidDeclID is the sentinel for "no declaration" (e.g. a Decl with no
// lexical parent, such as the TranslationUnitDecl itself).
const InvalidDeclID DeclID = 0

// AsTypeRef narrows a DeclID to the types.DeclRef a Type node references
// it by (e.g. a RecordDecl's own Type in TypeContext.GetRecord).
func (id DeclID) AsTypeRef() types.DeclRef { return types.DeclRef(id) }

// DeclKind is the closed set of declaration variants spec.md §3 names,
// plus the SUPPLEMENTED BaseSpecifier and StaticAssertDecl recovered from
// original_source/ (see SPEC_FULL.md). C++ templates, Objective-C
// interface/protocol/ivar/category/implementation/property declarations,
// and C++ namespaces/linkage-spec blocks are narrowed out: see DESIGN.md's
// Open Question decisions for why (no parser path reaches any of them).
type DeclKind int

const (
	TranslationUnit DeclKind = iota
	Var
	Function
	Field
	EnumConstant
	Parm
	Typedef
	Record
	Enum
	Class
	ObjCMethod
	StaticAssert
)

func (k DeclKind) String() string {
	switch k {
	case TranslationUnit:
		return "TranslationUnit"
	case Var:
		return "Var"
	case Function:
		return "Function"
	case Field:
		return "Field"
	case EnumConstant:
		return "EnumConstant"
	case Parm:
		return "Parm"
	case Typedef:
		return "Typedef"
	case Record:
		return "Record"
	case Enum:
		return "Enum"
	case Class:
		return "Class"
	case ObjCMethod:
		return "ObjCMethod"
	case StaticAssert:
		return "StaticAssert"
	default:
		return "DeclKind(?)"
	}
}

// AccessLevel is a C++ class member's access specifier.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

// StorageClass is a Var/FunctionDecl's declared storage-class specifier.
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageExtern
	StorageStatic
	StorageAuto
	StorageRegister
)

// Decl is the common interface every declaration entity satisfies: an
// identity, a classification, its two parents, and its source location.
// Concrete fields specific to one DeclKind live on the concrete struct;
// callers type-switch on Kind() to reach them, matching spec.md §3's "the
// declaration entities form a tree" data model without needing a
// class-hierarchy mechanism Go doesn't have.
type Decl interface {
	ID() DeclID
	Kind() DeclKind
	Name() ID
	LexicalParent() DeclID
	SemanticParent() DeclID
	Loc() source.SourceLocation
	Access() AccessLevel
}

// Base is embedded by every concrete Decl kind and implements the common
// Decl accessors.
type Base struct {
	id             DeclID
	kind           DeclKind
	name           ID
	lexicalParent  DeclID
	semanticParent DeclID
	loc            source.SourceLocation
	access         AccessLevel
}

func (b *Base) ID() DeclID                     { return b.id }
func (b *Base) Kind() DeclKind                 { return b.kind }
func (b *Base) Name() ID                       { return b.name }
func (b *Base) LexicalParent() DeclID          { return b.lexicalParent }
func (b *Base) SemanticParent() DeclID         { return b.semanticParent }
func (b *Base) Loc() source.SourceLocation     { return b.loc }
func (b *Base) Access() AccessLevel            { return b.access }
func (b *Base) SetAccess(a AccessLevel)        { b.access = a }

// VarDecl is a variable (including a C++ member's static data member).
type VarDecl struct {
	Base
	Type    types.QualType
	Storage StorageClass
	Init    types.ExprHandle // nil if uninitialized
	IsParam bool
}

// ParmDecl is a function/method parameter; kept distinct from VarDecl
// because parameters participate in FunctionProto signatures and overload
// resolution but never in ordinary redeclaration chains.
type ParmDecl struct {
	Base
	Type  types.QualType
	Index int // 0-based position in the parameter list
}

// FieldDecl is a non-static data member of a Record.
type FieldDecl struct {
	Base
	Type        types.QualType
	BitWidth    types.ExprHandle // nil if not a bit-field
	IsBitField  bool
}

// EnumConstantDecl is one enumerator of an Enum.
type EnumConstantDecl struct {
	Base
	Type  types.QualType
	Value int64
	Expr  types.ExprHandle // nil if the value was implicit (prev+1)
}

// FunctionDecl is a function or C++ member function declaration.
type FunctionDecl struct {
	Base
	Type      types.QualType // FunctionProto or FunctionNoProto
	Params    []DeclID       // ParmDecl IDs, in order
	Body      types.ExprHandle // nil if this is only a prototype
	Storage   StorageClass
	IsInline  bool
	IsDefined bool
}

// TypedefDecl names qt as Name().
type TypedefDecl struct {
	Base
	Type types.QualType
}

// RecordDecl is a struct/union/class. Per spec.md §9's two-phase
// construction note, a RecordDecl is created incomplete (Fields is nil,
// IsDefinition false) and handed a Type via TypeContext.GetRecord before
// its body is parsed, so a field can reference the record's own type.
type RecordDecl struct {
	Base
	TagKind      RecordTagKind
	Fields       []DeclID // FieldDecl IDs, in order; nil until defined
	Bases        []BaseSpecifier
	IsDefinition bool
}

// RecordTagKind distinguishes struct/union/class, since spec.md groups
// them under one Record variant but C++ semantics (default access,
// implicit base-class-ness) depend on which keyword introduced it.
type RecordTagKind int

const (
	TagStruct RecordTagKind = iota
	TagUnion
	TagClass
)

// BaseSpecifier is a C++ class's base-class entry ("class D : public B"),
// a feature original_source/ models but spec.md's distillation dropped
// (SUPPLEMENTED FEATURES in SPEC_FULL.md).
type BaseSpecifier struct {
	Base       types.QualType // the base class's Record type
	Access     AccessLevel
	IsVirtual  bool
}

// EnumDecl is an enumeration.
type EnumDecl struct {
	Base
	Constants      []DeclID // EnumConstantDecl IDs, in order
	UnderlyingType types.QualType
	IsDefinition   bool
}

// ObjCMethodDecl is one Objective-C method, keyed for lookup by its
// Selector (see decltable.go's method table).
type ObjCMethodDecl struct {
	Base
	Selector   Selector
	IsInstance bool // instance method (-) vs factory/class method (+)
	ReturnType types.QualType
	Params     []DeclID // ParmDecl IDs
	Body       types.ExprHandle
}

// StaticAssertDecl is a C11/C++11 `_Static_assert`/`static_assert`, a
// feature original_source/ implements that spec.md's distillation dropped
// (SUPPLEMENTED FEATURES in SPEC_FULL.md). It is a Decl (not a Stmt) at
// namespace/class scope, and a Stmt at block scope; DeclTable only models
// the former since block-scope statements belong to internal/ast.
type StaticAssertDecl struct {
	Base
	Condition types.ExprHandle
	Message   string
}

// TranslationUnitDecl is the root of the declaration tree.
type TranslationUnitDecl struct {
	Base
	Decls []DeclID // top-level decls, in order
}
