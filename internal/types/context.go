package types

import "fmt"

// arrayKey and the other key structs below are the uniquing keys for Type
// variants spec.md §4.2 requires interned ("GetPointer... returns the same
// Type* for the same argument"). Keying on a plain comparable struct and
// using it as a Go map key is the idiomatic stand-in for the original's
// FoldingSet profile-hash approach.
type pointerKey struct {
	pointee QualType
}

type refKey struct {
	pointee QualType
	rvalue  bool
}

type memberPointerKey struct {
	pointee QualType
	class   *Type
}

type constArrayKey struct {
	elem QualType
	size uint64
	mod  ArraySizeModifier
}

type incompleteArrayKey struct {
	elem QualType
	mod  ArraySizeModifier
}

type vectorKey struct {
	elem  QualType
	width int
	ext   bool
}

type funcProtoKey struct {
	result   QualType
	params   string // params rendered to a string; QualType isn't itself comparable-safe as a slice
	variadic bool
	cvQuals  Qualifiers
}

type funcNoProtoKey struct {
	result QualType
}

type typedefKey struct {
	decl      DeclRef
	underlying QualType
}

type extQualKey struct {
	base         QualType
	addressSpace uint32
	gc           GCAttr
}

type templateSpecKey struct {
	template DeclRef
	args     string
}

type complexKey struct {
	elem QualType
}

// TypeContext is the per-translation-unit owner and uniquer of every Type.
// It holds one map per uniqued variant family (spec §4.2: "a pointer type
// is uniqued by its pointee; a constant array is uniqued by (element,
// size); a variable array, never"), plus the builtin singletons. Per spec
// §5 there is exactly one TypeContext per translation unit and it is never
// shared across goroutines, so no locking guards these maps.
type TypeContext struct {
	builtins map[BuiltinKind]*Type

	pointers        map[pointerKey]*Type
	references      map[refKey]*Type
	memberPointers  map[memberPointerKey]*Type
	constArrays     map[constArrayKey]*Type
	incompleteArrays map[incompleteArrayKey]*Type
	vectors         map[vectorKey]*Type
	funcProtos      map[funcProtoKey]*Type
	funcNoProtos    map[funcNoProtoKey]*Type
	typedefs        map[typedefKey]*Type
	extQuals        map[extQualKey]*Type
	templateSpecs   map[templateSpecKey]*Type
	complexes       map[complexKey]*Type
	records         map[DeclRef]*Type
	enums           map[DeclRef]*Type
	objcInterfaces  map[DeclRef]*Type
	blockPointers   map[pointerKey]*Type

	// variableArrays and dependentSizedArrays are deliberately NOT keyed
	// maps: spec §4.2 requires a fresh Type per occurrence because two VLAs
	// with the same element type can have runtime-distinct extents that are
	// not expression-equal even when spelled identically.
	variableArrays        []*Type
	dependentSizedArrays  []*Type
	templateTypeParms     []*Type
	dependentNames        []*Type
	objcQualifiedIDs      []*Type
}

// NewTypeContext returns a TypeContext with every builtin singleton
// pre-populated, the way a fresh translation unit's ASTContext does.
func NewTypeContext() *TypeContext {
	tc := &TypeContext{
		builtins:         make(map[BuiltinKind]*Type),
		pointers:         make(map[pointerKey]*Type),
		references:       make(map[refKey]*Type),
		memberPointers:   make(map[memberPointerKey]*Type),
		constArrays:      make(map[constArrayKey]*Type),
		incompleteArrays: make(map[incompleteArrayKey]*Type),
		vectors:          make(map[vectorKey]*Type),
		funcProtos:       make(map[funcProtoKey]*Type),
		funcNoProtos:     make(map[funcNoProtoKey]*Type),
		typedefs:         make(map[typedefKey]*Type),
		extQuals:         make(map[extQualKey]*Type),
		templateSpecs:    make(map[templateSpecKey]*Type),
		complexes:        make(map[complexKey]*Type),
		records:          make(map[DeclRef]*Type),
		enums:            make(map[DeclRef]*Type),
		objcInterfaces:   make(map[DeclRef]*Type),
		blockPointers:    make(map[pointerKey]*Type),
	}
	for bk := Void; bk <= ObjCSel; bk++ {
		t := &Type{kind: Builtin}
		t.canonical = t
		tc.builtins[bk] = t
		setBuiltinKind(t, bk)
	}
	return tc
}

// setBuiltinKind exists only so the Type literal above doesn't need an
// exported field; builtinKind lives on Type itself.
func setBuiltinKind(t *Type, bk BuiltinKind) { t.builtinKind = bk }

// GetBuiltinType returns the singleton Type for kind.
func (tc *TypeContext) GetBuiltinType(kind BuiltinKind) QualType {
	return QualType{T: tc.builtins[kind]}
}

// GetPointer returns the uniqued pointer-to-pointee type.
func (tc *TypeContext) GetPointer(pointee QualType) QualType {
	k := pointerKey{pointee}
	if t, ok := tc.pointers[k]; ok {
		return QualType{T: t}
	}
	t := &Type{kind: Pointer, pointee: pointee, dependent: pointee.IsDependentType()}
	t.canonical = tc.canonicalize(t)
	tc.pointers[k] = t
	return QualType{T: t}
}

// GetLValueReference returns the uniqued "pointee&" reference type.
func (tc *TypeContext) GetLValueReference(pointee QualType) QualType {
	return tc.getReference(pointee, false)
}

// GetRValueReference returns the uniqued "pointee&&" reference type.
func (tc *TypeContext) GetRValueReference(pointee QualType) QualType {
	return tc.getReference(pointee, true)
}

func (tc *TypeContext) getReference(pointee QualType, rvalue bool) QualType {
	k := refKey{pointee, rvalue}
	if t, ok := tc.references[k]; ok {
		return QualType{T: t}
	}
	kind := LValueReference
	if rvalue {
		kind = RValueReference
	}
	t := &Type{kind: kind, pointee: pointee, dependent: pointee.IsDependentType()}
	t.canonical = tc.canonicalize(t)
	tc.references[k] = t
	return QualType{T: t}
}

// GetMemberPointer returns the uniqued "pointee class::*" type.
func (tc *TypeContext) GetMemberPointer(pointee QualType, class *Type) QualType {
	k := memberPointerKey{pointee, class}
	if t, ok := tc.memberPointers[k]; ok {
		return QualType{T: t}
	}
	t := &Type{kind: MemberPointer, pointee: pointee, memberClass: class,
		dependent: pointee.IsDependentType() || class.dependent}
	t.canonical = tc.canonicalize(t)
	tc.memberPointers[k] = t
	return QualType{T: t}
}

// GetConstantArray returns the uniqued "elem[size]" type.
func (tc *TypeContext) GetConstantArray(elem QualType, size uint64, mod ArraySizeModifier) QualType {
	k := constArrayKey{elem, size, mod}
	if t, ok := tc.constArrays[k]; ok {
		return QualType{T: t}
	}
	t := &Type{kind: ConstantArray, elem: elem, arraySize: size, arrayMod: mod, dependent: elem.IsDependentType()}
	t.canonical = tc.canonicalize(t)
	tc.constArrays[k] = t
	return QualType{T: t}
}

// GetIncompleteArray returns the uniqued "elem[]" type.
func (tc *TypeContext) GetIncompleteArray(elem QualType, mod ArraySizeModifier) QualType {
	k := incompleteArrayKey{elem, mod}
	if t, ok := tc.incompleteArrays[k]; ok {
		return QualType{T: t}
	}
	t := &Type{kind: IncompleteArray, elem: elem, arrayMod: mod, dependent: elem.IsDependentType()}
	t.canonical = tc.canonicalize(t)
	tc.incompleteArrays[k] = t
	return QualType{T: t}
}

// GetVariableArray returns a FRESH (never uniqued) "elem[sizeExpr]" VLA
// type, per spec §4.2: two textually identical VLAs are not the same Type.
func (tc *TypeContext) GetVariableArray(elem QualType, sizeExpr ExprHandle, mod ArraySizeModifier) QualType {
	t := &Type{kind: VariableArray, elem: elem, arraySizeExp: sizeExpr, arrayMod: mod, dependent: elem.IsDependentType()}
	t.canonical = tc.canonicalize(t)
	tc.variableArrays = append(tc.variableArrays, t)
	return QualType{T: t}
}

// GetDependentSizedArray returns a fresh "elem[N]" array whose extent
// depends on a template parameter; never uniqued, always dependent.
func (tc *TypeContext) GetDependentSizedArray(elem QualType, sizeExpr ExprHandle, mod ArraySizeModifier) QualType {
	t := &Type{kind: DependentSizedArray, elem: elem, arraySizeExp: sizeExpr, arrayMod: mod, dependent: true}
	t.canonical = t
	tc.dependentSizedArrays = append(tc.dependentSizedArrays, t)
	return QualType{T: t}
}

// GetVector returns the uniqued fixed-width SIMD vector type.
func (tc *TypeContext) GetVector(elem QualType, width int) QualType {
	return tc.getVectorLike(elem, width, false)
}

// GetExtVector returns the uniqued OpenCL-style ext_vector_type.
func (tc *TypeContext) GetExtVector(elem QualType, width int) QualType {
	return tc.getVectorLike(elem, width, true)
}

func (tc *TypeContext) getVectorLike(elem QualType, width int, ext bool) QualType {
	k := vectorKey{elem, width, ext}
	if t, ok := tc.vectors[k]; ok {
		return QualType{T: t}
	}
	kind := Vector
	if ext {
		kind = ExtVector
	}
	t := &Type{kind: kind, elem: elem, vectorWidth: width, dependent: elem.IsDependentType()}
	t.canonical = tc.canonicalize(t)
	tc.vectors[k] = t
	return QualType{T: t}
}

// GetComplex returns the uniqued "_Complex elem" type.
func (tc *TypeContext) GetComplex(elem QualType) QualType {
	k := complexKey{elem}
	if t, ok := tc.complexes[k]; ok {
		return QualType{T: t}
	}
	t := &Type{kind: Complex, elem: elem, dependent: elem.IsDependentType()}
	t.canonical = tc.canonicalize(t)
	tc.complexes[k] = t
	return QualType{T: t}
}

// GetFunctionProto returns the uniqued typed-parameter-list function type.
func (tc *TypeContext) GetFunctionProto(result QualType, params []QualType, variadic bool, cvQuals Qualifiers) QualType {
	k := funcProtoKey{result: result, params: paramsKey(params), variadic: variadic, cvQuals: cvQuals}
	if t, ok := tc.funcProtos[k]; ok {
		return QualType{T: t}
	}
	dep := result.IsDependentType()
	for _, p := range params {
		dep = dep || p.IsDependentType()
	}
	cp := make([]QualType, len(params))
	copy(cp, params)
	t := &Type{kind: FunctionProto, result: result, params: cp, variadic: variadic, funcCVQuals: cvQuals, dependent: dep}
	t.canonical = tc.canonicalize(t)
	tc.funcProtos[k] = t
	return QualType{T: t}
}

// GetFunctionNoProto returns the uniqued K&R unprototyped function type.
func (tc *TypeContext) GetFunctionNoProto(result QualType) QualType {
	k := funcNoProtoKey{result}
	if t, ok := tc.funcNoProtos[k]; ok {
		return QualType{T: t}
	}
	t := &Type{kind: FunctionNoProto, result: result, dependent: result.IsDependentType()}
	t.canonical = tc.canonicalize(t)
	tc.funcNoProtos[k] = t
	return QualType{T: t}
}

// GetTypedef returns the uniqued sugar Type naming underlying via decl (a
// TypedefDecl handle). Typedef is never canonical: its canonical field
// points through to underlying's canonical form.
func (tc *TypeContext) GetTypedef(decl DeclRef, underlying QualType) QualType {
	k := typedefKey{decl, underlying}
	if t, ok := tc.typedefs[k]; ok {
		return QualType{T: t}
	}
	t := &Type{kind: Typedef, decl: decl, pointee: underlying, dependent: underlying.IsDependentType()}
	t.canonical = underlying.GetCanonicalType().T
	tc.typedefs[k] = t
	return QualType{T: t}
}

// GetExtQual returns the uniqued address-space/GC-attribute wrapper type.
func (tc *TypeContext) GetExtQual(base QualType, addressSpace uint32, gc GCAttr) QualType {
	k := extQualKey{base, addressSpace, gc}
	if t, ok := tc.extQuals[k]; ok {
		return QualType{T: t}
	}
	t := &Type{kind: ExtQual, pointee: base, addressSpace: addressSpace, gcAttr: gc, dependent: base.IsDependentType()}
	t.canonical = tc.canonicalize(t)
	tc.extQuals[k] = t
	return QualType{T: t}
}

// GetTemplateSpecialization returns the uniqued "template<args...>" type.
// The type is always its own canonical form, dependent or not: no
// instantiated Record/Enum type is built for a non-dependent
// specialization to canonicalize to.
func (tc *TypeContext) GetTemplateSpecialization(template DeclRef, args []TemplateArgument) QualType {
	k := templateSpecKey{template, templateArgsKey(args)}
	if t, ok := tc.templateSpecs[k]; ok {
		return QualType{T: t}
	}
	dep := false
	for _, a := range args {
		if a.IsType {
			dep = dep || a.Type.IsDependentType()
		}
	}
	cp := make([]TemplateArgument, len(args))
	copy(cp, args)
	t := &Type{kind: TemplateSpecialization, decl: template, templateArgs: cp, dependent: dep}
	t.canonical = t
	tc.templateSpecs[k] = t
	return QualType{T: t}
}

// GetTemplateTypeParm returns a fresh unresolved template type parameter
// Type for (depth, index); never uniqued since each occurrence in a
// template's body is a distinct AST node even when depth/index coincide
// structurally, and it is always its own canonical form and always
// dependent.
func (tc *TypeContext) GetTemplateTypeParm(depth, index int) QualType {
	t := &Type{kind: TemplateTypeParm, templateDepth: depth, templateIndex: index, dependent: true}
	t.canonical = t
	tc.templateTypeParms = append(tc.templateTypeParms, t)
	return QualType{T: t}
}

// GetDependentName returns a fresh "typename qualifier::name" type; always
// dependent, never uniqued (its meaning is resolved per-instantiation).
func (tc *TypeContext) GetDependentName(qualifier, name string) QualType {
	t := &Type{kind: DependentName, dependentQualifier: qualifier, dependentName: name, dependent: true}
	t.canonical = t
	tc.dependentNames = append(tc.dependentNames, t)
	return QualType{T: t}
}

// GetRecord returns the Type for the struct/union/class named by decl,
// creating it (incomplete) on first reference; CompleteRecord marks it
// complete once the definition is parsed.
func (tc *TypeContext) GetRecord(decl DeclRef) QualType {
	if t, ok := tc.records[decl]; ok {
		return QualType{T: t}
	}
	t := &Type{kind: Record, decl: decl, incomplete: true}
	t.canonical = t
	tc.records[decl] = t
	return QualType{T: t}
}

// CompleteRecord marks decl's Record type as having a known definition.
func (tc *TypeContext) CompleteRecord(decl DeclRef) {
	if t, ok := tc.records[decl]; ok {
		t.incomplete = false
	}
}

// GetEnum returns the Type for the enum named by decl, analogous to
// GetRecord.
func (tc *TypeContext) GetEnum(decl DeclRef) QualType {
	if t, ok := tc.enums[decl]; ok {
		return QualType{T: t}
	}
	t := &Type{kind: Enum, decl: decl, incomplete: true}
	t.canonical = t
	tc.enums[decl] = t
	return QualType{T: t}
}

// CompleteEnum marks decl's Enum type as having a known definition.
func (tc *TypeContext) CompleteEnum(decl DeclRef) {
	if t, ok := tc.enums[decl]; ok {
		t.incomplete = false
	}
}

// GetObjCInterface returns the Type for the Objective-C interface named by
// decl, optionally protocol-qualified.
func (tc *TypeContext) GetObjCInterface(decl DeclRef, protocols []DeclRef) QualType {
	if t, ok := tc.objcInterfaces[decl]; ok && len(protocols) == 0 {
		return QualType{T: t}
	}
	cp := make([]DeclRef, len(protocols))
	copy(cp, protocols)
	t := &Type{kind: ObjCInterface, decl: decl, objcProtocols: cp, objcQualified: len(protocols) > 0}
	t.canonical = t
	if len(protocols) == 0 {
		tc.objcInterfaces[decl] = t
	}
	return QualType{T: t}
}

// GetObjCQualifiedID returns a fresh "id<Proto,...>" type.
func (tc *TypeContext) GetObjCQualifiedID(protocols []DeclRef) QualType {
	cp := make([]DeclRef, len(protocols))
	copy(cp, protocols)
	t := &Type{kind: ObjCQualifiedID, objcProtocols: cp, objcQualified: true}
	t.canonical = t
	tc.objcQualifiedIDs = append(tc.objcQualifiedIDs, t)
	return QualType{T: t}
}

// GetBlockPointer returns the uniqued Objective-C block-pointer type.
func (tc *TypeContext) GetBlockPointer(pointee QualType) QualType {
	k := pointerKey{pointee}
	if t, ok := tc.blockPointers[k]; ok {
		return QualType{T: t}
	}
	t := &Type{kind: BlockPointer, pointee: pointee, dependent: pointee.IsDependentType()}
	t.canonical = tc.canonicalize(t)
	tc.blockPointers[k] = t
	return QualType{T: t}
}

// GetTypeOfExpr returns a fresh "typeof(expr)" sugar type whose underlying
// type is supplied by Sema once the operand expression is type-checked.
func (tc *TypeContext) GetTypeOfExpr(expr ExprHandle, underlying QualType) QualType {
	t := &Type{kind: TypeOfExpr, typeOfExpr: expr, pointee: underlying, dependent: underlying.IsDependentType()}
	t.canonical = underlying.GetCanonicalType().T
	return QualType{T: t}
}

// GetTypeOfType returns a fresh "typeof(type)" sugar type.
func (tc *TypeContext) GetTypeOfType(underlying QualType) QualType {
	t := &Type{kind: TypeOfType, pointee: underlying, dependent: underlying.IsDependentType()}
	t.canonical = underlying.GetCanonicalType().T
	return QualType{T: t}
}

// canonicalize computes t's canonical Type: itself, if every structural
// sub-part is already canonical; otherwise a fresh Type built from each
// sub-part's canonical form, itself interned so the canonical form is
// unique too (testable property 2, canonical idempotence).
func (tc *TypeContext) canonicalize(t *Type) *Type {
	switch t.kind {
	case Pointer:
		cp := t.pointee.GetCanonicalType()
		if cp == t.pointee {
			return t
		}
		return tc.GetPointer(cp).T
	case LValueReference:
		cp := t.pointee.GetCanonicalType()
		if cp == t.pointee {
			return t
		}
		return tc.GetLValueReference(cp).T
	case RValueReference:
		cp := t.pointee.GetCanonicalType()
		if cp == t.pointee {
			return t
		}
		return tc.GetRValueReference(cp).T
	case MemberPointer:
		cp := t.pointee.GetCanonicalType()
		cc := t.memberClass.canonical
		if cp == t.pointee && cc == t.memberClass {
			return t
		}
		return tc.GetMemberPointer(cp, cc).T
	case ConstantArray:
		ce := t.elem.GetCanonicalType()
		if ce == t.elem {
			return t
		}
		return tc.GetConstantArray(ce, t.arraySize, t.arrayMod).T
	case IncompleteArray:
		ce := t.elem.GetCanonicalType()
		if ce == t.elem {
			return t
		}
		return tc.GetIncompleteArray(ce, t.arrayMod).T
	case VariableArray:
		ce := t.elem.GetCanonicalType()
		if ce == t.elem {
			return t
		}
		c := &Type{kind: VariableArray, elem: ce, arraySizeExp: t.arraySizeExp, arrayMod: t.arrayMod, dependent: t.dependent}
		c.canonical = c
		return c
	case Vector, ExtVector:
		ce := t.elem.GetCanonicalType()
		if ce == t.elem {
			return t
		}
		return tc.getVectorLike(ce, t.vectorWidth, t.kind == ExtVector).T
	case Complex:
		ce := t.elem.GetCanonicalType()
		if ce == t.elem {
			return t
		}
		return tc.GetComplex(ce).T
	case FunctionProto:
		cr := t.result.GetCanonicalType()
		cps := make([]QualType, len(t.params))
		changed := cr != t.result
		for i, p := range t.params {
			cps[i] = p.GetCanonicalType()
			changed = changed || cps[i] != p
		}
		if !changed {
			return t
		}
		return tc.GetFunctionProto(cr, cps, t.variadic, t.funcCVQuals).T
	case FunctionNoProto:
		cr := t.result.GetCanonicalType()
		if cr == t.result {
			return t
		}
		return tc.GetFunctionNoProto(cr).T
	case ExtQual:
		cp := t.pointee.GetCanonicalType()
		if cp == t.pointee {
			return t
		}
		return tc.GetExtQual(cp, t.addressSpace, t.gcAttr).T
	case BlockPointer:
		cp := t.pointee.GetCanonicalType()
		if cp == t.pointee {
			return t
		}
		return tc.GetBlockPointer(cp).T
	default:
		// Builtin, Record, Enum, TemplateTypeParm, TemplateSpecialization,
		// DependentName, ObjCInterface, ObjCQualifiedID are always their own
		// canonical form; Typedef/TypeOfExpr/TypeOfType set .canonical
		// directly in their constructors rather than via canonicalize.
		return t
	}
}

func paramsKey(params []QualType) string {
	s := ""
	for _, p := range params {
		s += fmt.Sprintf("%p:%d|", p.T, p.Quals)
	}
	return s
}

func templateArgsKey(args []TemplateArgument) string {
	s := ""
	for _, a := range args {
		if a.IsType {
			s += fmt.Sprintf("T%p:%d|", a.Type.T, a.Type.Quals)
		} else {
			s += fmt.Sprintf("E%p|", a.Expr)
		}
	}
	return s
}
