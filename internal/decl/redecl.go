package decl

import "github.com/oxhq/ccore/internal/source"

// RedeclChain is every declaration of one entity across a translation
// unit, per spec.md §3/§4.3: a cyclic intrusive list in the original,
// modeled here — per spec.md §9's Design Notes — as a flat slice keyed off
// the canonical (first-declared) member, which avoids Go pointer-cycle
// lifetime hazards entirely.
type RedeclChain struct {
	Canonical DeclID
	Members   []DeclID // in declaration order; Members[0] == Canonical
	Latest    DeclID
	Definition DeclID // InvalidDeclID if the entity has no definition yet
}

// redeclStore owns every RedeclChain and the DeclID -> canonical side map
// testable property 6 exercises ("every declaration reachable from its
// canonical element via the chain has the same canonical element").
type redeclStore struct {
	chains    map[DeclID]*RedeclChain // keyed by canonical
	canonicalOf map[DeclID]DeclID
}

func newRedeclStore() *redeclStore {
	return &redeclStore{
		chains:      make(map[DeclID]*RedeclChain),
		canonicalOf: make(map[DeclID]DeclID),
	}
}

// StartChain begins a new redeclaration chain with first as its sole,
// canonical, latest member.
func (rs *redeclStore) StartChain(first DeclID) {
	rs.chains[first] = &RedeclChain{Canonical: first, Members: []DeclID{first}, Latest: first}
	rs.canonicalOf[first] = first
}

// Join links next into the same-entity chain headed by an existing member
// prior. It is Semantic Actions' job (not DeclTable's) to decide whether
// next actually redeclares prior; DeclTable only performs the mechanical
// linking once that decision is made.
func (rs *redeclStore) Join(prior, next DeclID) {
	canon, ok := rs.canonicalOf[prior]
	if !ok {
		panic(&source.InvariantError{Msg: "Join: prior decl has no redeclaration chain"})
	}
	chain := rs.chains[canon]
	chain.Members = append(chain.Members, next)
	chain.Latest = next
	rs.canonicalOf[next] = canon
}

// MarkDefinition records declID as the chain's unique definition. Panics
// (a fatal internal-invariant violation, per spec.md §7) if the chain
// already has a different definition — the "exactly one definition per
// chain" invariant (testable property 6) would otherwise be violated
// silently.
func (rs *redeclStore) MarkDefinition(declID DeclID) {
	canon, ok := rs.canonicalOf[declID]
	if !ok {
		panic(&source.InvariantError{Msg: "MarkDefinition: decl has no redeclaration chain"})
	}
	chain := rs.chains[canon]
	if chain.Definition != InvalidDeclID && chain.Definition != declID {
		panic(&source.InvariantError{Msg: "redeclaration chain already has a definition"})
	}
	chain.Definition = declID
}

// CanonicalOf returns the canonical (first-declared) member of declID's
// chain.
func (rs *redeclStore) CanonicalOf(declID DeclID) DeclID {
	return rs.canonicalOf[declID]
}

// Chain returns every member of declID's redeclaration chain, canonical
// first.
func (rs *redeclStore) Chain(declID DeclID) []DeclID {
	canon, ok := rs.canonicalOf[declID]
	if !ok {
		return nil
	}
	return rs.chains[canon].Members
}

// DefinitionOf returns the chain's definition, or InvalidDeclID if none.
func (rs *redeclStore) DefinitionOf(declID DeclID) DeclID {
	canon, ok := rs.canonicalOf[declID]
	if !ok {
		return InvalidDeclID
	}
	return rs.chains[canon].Definition
}
