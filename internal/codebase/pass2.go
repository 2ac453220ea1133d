package codebase

import "github.com/hakana-go/hakana/internal/ttype"

// ResolveMemberTypes runs pass 2. Because pass 1 has already populated
// every declaration in the batch, a typedef here may refer to one
// declared later in the same batch.
//
// Only typedef bodies are processed: each top-level Alias atom in a
// typedef body gets its ResolvedAs set to the target typedef's body, so
// later lookups never have to walk through that Alias atom more than once.
// Function and method parameter/return types are not examined.
func (idx *Index) ResolveMemberTypes() {
	for _, td := range idx.Typedefs {
		for i, atom := range td.Body.Atoms {
			alias, ok := atom.(ttype.Alias)
			if !ok {
				continue
			}
			target, ok := idx.Typedefs[alias.Name]
			if !ok {
				continue
			}
			resolvedBody := target.Body
			alias.ResolvedAs = &resolvedBody
			td.Body.Atoms[i] = alias
		}
	}
}
