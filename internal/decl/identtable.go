// Package decl implements declaration storage and name resolution: the
// DeclTable owns every Decl for a translation unit, threads the active
// Scope stack, interns identifier spellings and Objective-C selectors, and
// maintains each entity's redeclaration chain.
//
// Like internal/types, this package never imports internal/ast — a Decl
// that needs to reference an initializer or method body expression holds
// an opaque types.ExprHandle, for the same reason Type does.
package decl

// TokenKind distinguishes a keyword from a plain identifier, and
// identifies which keyword. Mirrors spec.md §4.3's "token-kind (keyword vs
// identifier, including dialect-conditional keywords)" requirement; the
// lexer/parser are out of core scope, so only the subset IdentifierInfo
// needs to carry is modeled here.
type TokenKind int

const (
	TokIdentifier TokenKind = iota
	TokKeyword
)

// ID is an opaque handle to an interned identifier spelling, index into
// IdentifierTable.infos.
type ID uint32

// InvalidID is the sentinel for "no identifier" (e.g. an anonymous decl).
const InvalidID ID = 0

// IdentifierInfo is everything the core tracks per distinct spelling: its
// token classification and the head of its identifier resolver chain — the
// singly-linked list of currently-visible declarations with this name, per
// spec.md §4.3.
type IdentifierInfo struct {
	Spelling string

	TokenKind TokenKind
	IsKeyword bool

	// resolverHead is the most recently pushed visible Decl with this
	// spelling in the ordinary namespace; tagResolverHead is the same for
	// the tag namespace (struct/union/enum names, kept separate from
	// ordinary identifiers per C's two-namespace rule). Neither is the
	// same list as a redeclaration chain — both track visibility, not
	// same-entity-ness.
	resolverHead    DeclID
	tagResolverHead DeclID
}

// IdentifierTable interns every distinct identifier spelling seen in a
// translation unit into one IdentifierInfo, the way the teacher's registry
// interns language names into one canonical record. Single-threaded per
// spec.md §5, so (unlike the teacher) it carries no mutex.
type IdentifierTable struct {
	byName map[string]ID
	infos  []*IdentifierInfo // index 0 unused
}

// NewIdentifierTable returns an empty table.
func NewIdentifierTable() *IdentifierTable {
	return &IdentifierTable{
		byName: make(map[string]ID),
		infos:  make([]*IdentifierInfo, 1),
	}
}

// Get interns spelling, returning its existing ID or allocating a fresh
// IdentifierInfo for it.
func (t *IdentifierTable) Get(spelling string) ID {
	if id, ok := t.byName[spelling]; ok {
		return id
	}
	id := ID(len(t.infos))
	t.infos = append(t.infos, &IdentifierInfo{Spelling: spelling})
	t.byName[spelling] = id
	return id
}

// Lookup returns the ID for spelling without interning it, and whether it
// had already been seen.
func (t *IdentifierTable) Lookup(spelling string) (ID, bool) {
	id, ok := t.byName[spelling]
	return id, ok
}

// Info returns the IdentifierInfo for id.
func (t *IdentifierTable) Info(id ID) *IdentifierInfo {
	return t.infos[id]
}

// MarkKeyword records spelling as a keyword, interning it if this is the
// first time the table has seen it. The lexer calls this for every leaf it
// classifies as one of parser.Keywords, so IdentifierInfo.IsKeyword agrees
// with the token stream instead of keeping its own disconnected copy.
func (t *IdentifierTable) MarkKeyword(spelling string) {
	id := t.Get(spelling)
	info := t.infos[id]
	info.TokenKind = TokKeyword
	info.IsKeyword = true
}
