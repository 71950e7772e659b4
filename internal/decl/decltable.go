package decl

import (
	"github.com/oxhq/ccore/internal/source"
	"github.com/oxhq/ccore/internal/types"
)

// objcMethodKey is the "global two-keyed table (selector,
// instance-or-factory)" spec.md §4.3 specifies for Objective-C method
// lookup.
type objcMethodKey struct {
	sel        Selector
	isInstance bool
}

// scopeUndoEntry lets PopScope restore exactly the identifier-resolver
// state that was visible before the matching PushScope, independent of
// how many decls were introduced in between.
type scopeUndoEntry struct {
	identifierID ID
	isTag        bool
	prevHead     DeclID
}

// DeclTable owns every Decl for one translation unit: the arena, the
// active Scope stack, the interned IdentifierTable and SelectorTable, and
// every entity's RedeclChain. Per spec.md §5 it is per-translation-unit
// and never shared across goroutines.
type DeclTable struct {
	arena []Decl // index 0 unused (InvalidDeclID)

	Idents    *IdentifierTable
	Selectors *SelectorTable
	Scopes    *ScopeStack
	redecls   *redeclStore

	objcMethods map[objcMethodKey]DeclID

	scopeUndo [][]scopeUndoEntry // parallel to Scopes' push/pop, one frame per active scope

	tu DeclID // the TranslationUnitDecl's own ID
}

// NewDeclTable returns a fresh table seeded with its TranslationUnitDecl
// and an empty (not yet pushed) scope stack.
func NewDeclTable() *DeclTable {
	dt := &DeclTable{
		arena:       make([]Decl, 1),
		Idents:      NewIdentifierTable(),
		Selectors:   NewSelectorTable(),
		Scopes:      NewScopeStack(),
		redecls:     newRedeclStore(),
		objcMethods: make(map[objcMethodKey]DeclID),
	}
	tu := &TranslationUnitDecl{}
	id := dt.alloc(tu)
	tu.id, tu.kind = id, TranslationUnit
	dt.tu = id
	dt.redecls.StartChain(id)
	return dt
}

// TranslationUnit returns the root TranslationUnitDecl's ID.
func (dt *DeclTable) TranslationUnit() DeclID { return dt.tu }

func (dt *DeclTable) alloc(d Decl) DeclID {
	id := DeclID(len(dt.arena))
	dt.arena = append(dt.arena, d)
	return id
}

// Decl returns the stored Decl for id. Panics (fatal, per spec §7) on an
// unknown id, the decl-arena analogue of dispatch to an unknown StmtClass.
func (dt *DeclTable) Decl(id DeclID) Decl {
	if id == InvalidDeclID || int(id) >= len(dt.arena) {
		panic(&source.InvariantError{Msg: "DeclTable: reference to a non-existent DeclID"})
	}
	return dt.arena[id]
}

// AddTopLevelDecl appends id to the TranslationUnitDecl's child list.
func (dt *DeclTable) AddTopLevelDecl(id DeclID) {
	tu := dt.arena[dt.tu].(*TranslationUnitDecl)
	tu.Decls = append(tu.Decls, id)
}

// --- Scope management ---

// PushScope enters a new scope of kind.
func (dt *DeclTable) PushScope(kind ScopeKind) *Scope {
	dt.scopeUndo = append(dt.scopeUndo, nil)
	return dt.Scopes.Push(kind)
}

// PopScope leaves the innermost scope, unshadowing every identifier
// declared within it back to its pre-scope visibility, and returns the
// DeclIDs that were declared directly in it.
func (dt *DeclTable) PopScope() []DeclID {
	frame := dt.scopeUndo[len(dt.scopeUndo)-1]
	dt.scopeUndo = dt.scopeUndo[:len(dt.scopeUndo)-1]
	for i := len(frame) - 1; i >= 0; i-- {
		e := frame[i]
		info := dt.Idents.Info(e.identifierID)
		if e.isTag {
			info.tagResolverHead = e.prevHead
		} else {
			info.resolverHead = e.prevHead
		}
	}
	return dt.Scopes.Pop()
}

// Declare introduces id (named identifierID) as visible in the innermost
// scope's ordinary (or, if isTag, tag) namespace, per spec.md §4.3's
// identifier resolver chain.
func (dt *DeclTable) Declare(identifierID ID, id DeclID, isTag bool) {
	info := dt.Idents.Info(identifierID)
	var prevHead DeclID
	if isTag {
		prevHead = info.tagResolverHead
		info.tagResolverHead = id
	} else {
		prevHead = info.resolverHead
		info.resolverHead = id
	}
	dt.Scopes.Declare(id)
	top := len(dt.scopeUndo) - 1
	dt.scopeUndo[top] = append(dt.scopeUndo[top], scopeUndoEntry{identifierID: identifierID, isTag: isTag, prevHead: prevHead})
}

// --- Lookup ---

// LookupOrdinary returns the nearest-scope visible decl for identifierID
// in the ordinary namespace (variables, functions, typedefs, enumerators).
func (dt *DeclTable) LookupOrdinary(identifierID ID) (DeclID, bool) {
	head := dt.Idents.Info(identifierID).resolverHead
	return head, head != InvalidDeclID
}

// LookupTag returns the nearest-scope visible decl for identifierID in the
// tag namespace (struct/union/enum names), kept distinct from the
// ordinary namespace per C's two-namespace rule ("struct S" vs a variable
// named "S").
func (dt *DeclTable) LookupTag(identifierID ID) (DeclID, bool) {
	head := dt.Idents.Info(identifierID).tagResolverHead
	return head, head != InvalidDeclID
}

// LookupMember searches recordID's own fields for a member named
// identifierID, per spec.md §4.3's "within a Record context, consults the
// context's stored map."
func (dt *DeclTable) LookupMember(recordID DeclID, identifierID ID) (DeclID, bool) {
	rec, ok := dt.arena[recordID].(*RecordDecl)
	if !ok {
		return InvalidDeclID, false
	}
	for _, fid := range rec.Fields {
		if dt.arena[fid].Name() == identifierID {
			return fid, true
		}
	}
	return InvalidDeclID, false
}

// LookupObjCMethod resolves sel against the instance (isInstance) or
// factory method table, per spec.md §4.3's selector-keyed global table.
func (dt *DeclTable) LookupObjCMethod(sel Selector, isInstance bool) (DeclID, bool) {
	id, ok := dt.objcMethods[objcMethodKey{sel: sel, isInstance: isInstance}]
	return id, ok
}

// --- Redeclaration chains ---

// StartRedeclChain begins id's chain with itself as the sole member.
func (dt *DeclTable) StartRedeclChain(id DeclID) { dt.redecls.StartChain(id) }

// JoinRedeclChain links next into prior's chain. Semantic Actions decides
// whether this linkage is warranted; DeclTable only performs it.
func (dt *DeclTable) JoinRedeclChain(prior, next DeclID) { dt.redecls.Join(prior, next) }

// MarkDefinition records id as its chain's unique definition.
func (dt *DeclTable) MarkDefinition(id DeclID) { dt.redecls.MarkDefinition(id) }

// CanonicalDecl returns the canonical (first-declared) member of id's
// chain.
func (dt *DeclTable) CanonicalDecl(id DeclID) DeclID { return dt.redecls.CanonicalOf(id) }

// RedeclChain returns every member of id's redeclaration chain.
func (dt *DeclTable) RedeclChain(id DeclID) []DeclID { return dt.redecls.Chain(id) }

// DefinitionOf returns id's chain's unique definition, or InvalidDeclID.
func (dt *DeclTable) DefinitionOf(id DeclID) DeclID { return dt.redecls.DefinitionOf(id) }

// --- Constructors ---
// Each New*Decl allocates the concrete struct, assigns its ID, and starts
// a fresh single-member redeclaration chain (most decl kinds begin life as
// their own canonical declaration; callers needing to link a subsequent
// redeclaration call JoinRedeclChain explicitly).

func (dt *DeclTable) newBase(kind DeclKind, name ID, lexical, semantic DeclID, loc source.SourceLocation) Base {
	return Base{kind: kind, name: name, lexicalParent: lexical, semanticParent: semantic, loc: loc}
}

// NewVarDecl allocates a VarDecl.
func (dt *DeclTable) NewVarDecl(name ID, qt types.QualType, storage StorageClass, lexical, semantic DeclID, loc source.SourceLocation) DeclID {
	d := &VarDecl{Base: dt.newBase(Var, name, lexical, semantic, loc), Type: qt, Storage: storage}
	id := dt.alloc(d)
	d.id = id
	dt.redecls.StartChain(id)
	return id
}

// NewParmDecl allocates a ParmDecl at the given 0-based parameter index.
func (dt *DeclTable) NewParmDecl(name ID, qt types.QualType, index int, lexical, semantic DeclID, loc source.SourceLocation) DeclID {
	d := &ParmDecl{Base: dt.newBase(Parm, name, lexical, semantic, loc), Type: qt, Index: index}
	id := dt.alloc(d)
	d.id = id
	dt.redecls.StartChain(id)
	return id
}

// NewFieldDecl allocates a FieldDecl.
func (dt *DeclTable) NewFieldDecl(name ID, qt types.QualType, lexical, semantic DeclID, loc source.SourceLocation) DeclID {
	d := &FieldDecl{Base: dt.newBase(Field, name, lexical, semantic, loc), Type: qt}
	id := dt.alloc(d)
	d.id = id
	dt.redecls.StartChain(id)
	return id
}

// NewEnumConstantDecl allocates an EnumConstantDecl and appends it to
// enumID's Constants list.
func (dt *DeclTable) NewEnumConstantDecl(name ID, enumID DeclID, qt types.QualType, value int64, expr types.ExprHandle, loc source.SourceLocation) DeclID {
	d := &EnumConstantDecl{Base: dt.newBase(EnumConstant, name, enumID, enumID, loc), Type: qt, Value: value, Expr: expr}
	id := dt.alloc(d)
	d.id = id
	dt.redecls.StartChain(id)
	en := dt.arena[enumID].(*EnumDecl)
	en.Constants = append(en.Constants, id)
	return id
}

// NewFunctionDecl allocates a FunctionDecl.
func (dt *DeclTable) NewFunctionDecl(name ID, qt types.QualType, storage StorageClass, lexical, semantic DeclID, loc source.SourceLocation) DeclID {
	d := &FunctionDecl{Base: dt.newBase(Function, name, lexical, semantic, loc), Type: qt, Storage: storage}
	id := dt.alloc(d)
	d.id = id
	dt.redecls.StartChain(id)
	return id
}

// SetFunctionParams records fnID's parameter list.
func (dt *DeclTable) SetFunctionParams(fnID DeclID, params []DeclID) {
	dt.arena[fnID].(*FunctionDecl).Params = params
}

// DefineFunction marks fnID as having a body and as its chain's
// definition.
func (dt *DeclTable) DefineFunction(fnID DeclID, body types.ExprHandle) {
	fn := dt.arena[fnID].(*FunctionDecl)
	fn.Body, fn.IsDefined = body, true
	dt.redecls.MarkDefinition(fnID)
}

// NewTypedefDecl allocates a TypedefDecl.
func (dt *DeclTable) NewTypedefDecl(name ID, qt types.QualType, lexical, semantic DeclID, loc source.SourceLocation) DeclID {
	d := &TypedefDecl{Base: dt.newBase(Typedef, name, lexical, semantic, loc), Type: qt}
	id := dt.alloc(d)
	d.id = id
	dt.redecls.StartChain(id)
	return id
}

// NewRecordDecl allocates an incomplete RecordDecl, per spec.md §9's
// two-phase construction: the caller obtains this ID (and the Type handle
// TypeContext.GetRecord derives from it) before the body is known, so a
// field's type can reference the record itself.
func (dt *DeclTable) NewRecordDecl(name ID, tagKind RecordTagKind, lexical, semantic DeclID, loc source.SourceLocation) DeclID {
	d := &RecordDecl{Base: dt.newBase(Record, name, lexical, semantic, loc), TagKind: tagKind}
	id := dt.alloc(d)
	d.id = id
	dt.redecls.StartChain(id)
	return id
}

// CompleteRecordDecl supplies recID's body, completing the two-phase
// construction NewRecordDecl began.
func (dt *DeclTable) CompleteRecordDecl(recID DeclID, fields []DeclID, bases []BaseSpecifier) {
	rec := dt.arena[recID].(*RecordDecl)
	rec.Fields, rec.Bases, rec.IsDefinition = fields, bases, true
	dt.redecls.MarkDefinition(recID)
}

// NewEnumDecl allocates an incomplete EnumDecl, analogous to
// NewRecordDecl.
func (dt *DeclTable) NewEnumDecl(name ID, lexical, semantic DeclID, loc source.SourceLocation) DeclID {
	d := &EnumDecl{Base: dt.newBase(Enum, name, lexical, semantic, loc)}
	id := dt.alloc(d)
	d.id = id
	dt.redecls.StartChain(id)
	return id
}

// CompleteEnumDecl supplies enumID's underlying type, completing its
// two-phase construction. Constants are appended individually by
// NewEnumConstantDecl as they're parsed.
func (dt *DeclTable) CompleteEnumDecl(enumID DeclID, underlying types.QualType) {
	en := dt.arena[enumID].(*EnumDecl)
	en.UnderlyingType, en.IsDefinition = underlying, true
	dt.redecls.MarkDefinition(enumID)
}

// NewObjCMethodDecl allocates an ObjCMethodDecl.
func (dt *DeclTable) NewObjCMethodDecl(sel Selector, isInstance bool, returnType types.QualType, params []DeclID, lexical, semantic DeclID, loc source.SourceLocation) DeclID {
	d := &ObjCMethodDecl{Base: dt.newBase(ObjCMethod, InvalidID, lexical, semantic, loc),
		Selector: sel, IsInstance: isInstance, ReturnType: returnType, Params: params}
	id := dt.alloc(d)
	d.id = id
	dt.redecls.StartChain(id)
	return id
}

// DefineObjCMethod supplies methodID's body and marks it defined.
func (dt *DeclTable) DefineObjCMethod(methodID DeclID, body types.ExprHandle) {
	m := dt.arena[methodID].(*ObjCMethodDecl)
	m.Body = body
	dt.redecls.MarkDefinition(methodID)
}

func (dt *DeclTable) registerObjCMethod(methodID DeclID) {
	m := dt.arena[methodID].(*ObjCMethodDecl)
	dt.objcMethods[objcMethodKey{sel: m.Selector, isInstance: m.IsInstance}] = methodID
}

// NewStaticAssertDecl allocates a StaticAssertDecl (SUPPLEMENTED, see
// SPEC_FULL.md).
func (dt *DeclTable) NewStaticAssertDecl(condition types.ExprHandle, message string, lexical, semantic DeclID, loc source.SourceLocation) DeclID {
	d := &StaticAssertDecl{Base: dt.newBase(StaticAssert, InvalidID, lexical, semantic, loc), Condition: condition, Message: message}
	id := dt.alloc(d)
	d.id = id
	dt.redecls.StartChain(id)
	return id
}
