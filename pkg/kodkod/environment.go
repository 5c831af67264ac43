package kodkod

import (
	"fmt"
	"strings"
)

// envFrame binds one Variable to a ground value during translation of a
// quantifier, comprehension, or sum body.
type envFrame struct {
	variable *Variable
	value    *BooleanMatrix
	parent   *environment
}

// environment is a persistent linked stack of envFrames (spec.md §9:
// "captured as a persistent linked frame... cheap to snapshot into the
// translation cache key"). Pushing returns a new environment sharing the
// old one's tail, so a snapshot taken before a push remains valid after
// it — exactly what the translation cache needs to key on "the bindings
// in scope when this node was visited".
type environment struct {
	frame *envFrame
}

// emptyEnvironment is the environment with no bindings in scope.
var emptyEnvironment = &environment{}

// push returns a new environment with v bound to value, shadowing any
// outer binding of the same Variable pointer (spec.md §8 scenario 6).
func (e *environment) push(v *Variable, value *BooleanMatrix) *environment {
	return &environment{frame: &envFrame{variable: v, value: value, parent: e}}
}

// lookup returns v's bound value and true, searching from the innermost
// frame outward, or the zero value and false if v is unbound.
func (e *environment) lookup(v *Variable) (*BooleanMatrix, bool) {
	for f := e.frame; f != nil; f = f.parent.frame {
		if f.variable == v {
			return f.value, true
		}
	}
	return nil, false
}

// restrict returns the sub-environment containing only the bindings for
// variables in free, in their original relative order, which is the
// translation cache key's "environment snapshot restricted to variables
// free in node" (spec.md §4.3). free is treated as a set via pointer
// identity.
func (e *environment) restrict(free []*Variable) *environment {
	if len(free) == 0 {
		return emptyEnvironment
	}
	wanted := make(map[*Variable]bool, len(free))
	for _, v := range free {
		wanted[v] = true
	}
	var collected []*envFrame
	for f := e.frame; f != nil; f = f.parent.frame {
		if wanted[f.variable] {
			collected = append(collected, f)
		}
	}
	out := emptyEnvironment
	for i := len(collected) - 1; i >= 0; i-- {
		out = out.push(collected[i].variable, collected[i].value)
	}
	return out
}

// key returns a comparable representation of e suitable for use as (part
// of) a translation cache map key: the pointer identities of each bound
// Variable and its ground value, which is all identity-by-reference AST
// nodes need for equality.
func (e *environment) key() string {
	var b strings.Builder
	for f := e.frame; f != nil; f = f.parent.frame {
		fmt.Fprintf(&b, "[%p:%p]", f.variable, f.value)
	}
	return b.String()
}
