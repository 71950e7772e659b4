package sema

import (
	"github.com/oxhq/ccore/internal/decl"
	"github.com/oxhq/ccore/internal/types"
)

// Candidate is one viable overload: a FunctionDecl/ObjCMethodDecl plus the
// parameter types used to rank it, per spec.md §4.4's "C++ and ObjC method
// dispatch... rank by conversion-sequence quality" contract.
type Candidate struct {
	Decl       decl.DeclID
	ParamTypes []types.QualType
	IsVariadic bool
}

// convRank scores converting a single argument to a parameter type: 0 for
// an exact (canonical) match, 1 for an integer/float promotion, 2 for any
// other arithmetic conversion, or -1 (not viable) when no conversion
// applies. Lower is better, mirroring a real compiler's standard-
// conversion-sequence ranking collapsed to the handful of conversion
// kinds this core's Actions actually model (no user-defined conversions:
// ccore tracks no constructors, per QualType.IsAggregateType's doc
// comment in internal/types).
func convRank(a *Actions, argType, paramType types.QualType) int {
	if sameCanonical(argType, paramType) {
		return 0
	}
	if !argType.IsArithmeticType() || !paramType.IsArithmeticType() {
		if argType.IsPointerType() && paramType.IsPointerType() {
			return 2
		}
		return -1
	}
	if sameCanonical(a.IntegerPromote(argType), paramType) {
		return 1
	}
	ac, pc := argType.GetCanonicalType().T, paramType.GetCanonicalType().T
	if ac.Kind() == types.Builtin && pc.Kind() == types.Builtin &&
		ac.BuiltinKind() == types.Float && pc.BuiltinKind() == types.Double {
		return 1
	}
	return 2
}

// ResolveOverload ranks candidates against the given argument types and
// returns the best match. ok is false when no candidate is viable;
// ambiguous is true when two or more candidates tie for best, per spec.md
// §4.4's "report ambiguity when no candidate strictly dominates".
func (a *Actions) ResolveOverload(candidates []Candidate, argTypes []types.QualType) (best decl.DeclID, ok bool, ambiguous bool) {
	bestRank := -1
	var bestIdx []int

	for i, c := range candidates {
		if len(argTypes) != len(c.ParamTypes) && !(c.IsVariadic && len(argTypes) >= len(c.ParamTypes)) {
			continue
		}
		total := 0
		viable := true
		for j, paramType := range c.ParamTypes {
			r := convRank(a, argTypes[j], paramType)
			if r < 0 {
				viable = false
				break
			}
			total += r
		}
		if !viable {
			continue
		}
		switch {
		case bestRank < 0 || total < bestRank:
			bestRank = total
			bestIdx = []int{i}
		case total == bestRank:
			bestIdx = append(bestIdx, i)
		}
	}

	if len(bestIdx) == 0 {
		return decl.InvalidDeclID, false, false
	}
	if len(bestIdx) > 1 {
		return decl.InvalidDeclID, false, true
	}
	return candidates[bestIdx[0]].Decl, true, false
}
