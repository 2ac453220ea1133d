package codebase

// ComputeClosures recomputes AllParentClasses/AllParentInterfaces/
// AllClassInterfaces and the DeclaringClassForProperty/DeclaringMethodID
// maps for every class in names. Call with every indexed class name after
// a full scan, or with just the classes whose parents/interfaces/traits
// set changed after an incremental re-index.
func (idx *Index) ComputeClosures(names []string) {
	for _, name := range names {
		ci, ok := idx.Classes[name]
		if !ok {
			continue
		}
		ci.AllParentClasses = idx.collectParentClasses(name, make(map[string]bool))
		ci.AllParentInterfaces = idx.collectParentInterfaces(name, make(map[string]bool))
		ci.AllClassInterfaces = dedupeAppend(ci.AllParentInterfaces, ci.Interfaces...)

		idx.resolveDeclaringMembers(ci)
	}
}

func (idx *Index) collectParentClasses(name string, seen map[string]bool) []string {
	ci, ok := idx.Classes[name]
	if !ok {
		return nil
	}
	var out []string
	for _, p := range ci.Parents {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
		out = append(out, idx.collectParentClasses(p, seen)...)
	}
	return out
}

func (idx *Index) collectParentInterfaces(name string, seen map[string]bool) []string {
	ci, ok := idx.Classes[name]
	if !ok {
		return nil
	}
	var out []string
	walk := func(iface string) {
		if seen[iface] {
			return
		}
		seen[iface] = true
		out = append(out, iface)
		out = append(out, idx.collectParentInterfaces(iface, seen)...)
	}
	for _, i := range ci.Interfaces {
		walk(i)
	}
	for _, p := range ci.Parents {
		// The recursive call has already marked what it returns as seen,
		// so its result is appended directly rather than re-walked.
		out = append(out, idx.collectParentInterfaces(p, seen)...)
		if pi, ok := idx.Classes[p]; ok {
			for _, i := range pi.Interfaces {
				walk(i)
			}
		}
	}
	return out
}

func dedupeAppend(base []string, extra ...string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, s := range base {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range extra {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// resolveDeclaringMembers fills DeclaringClassForProperty and
// DeclaringMethodID by walking, in precedence order: the class's own
// members (already set during pass 1), then trait uses, then parents,
// then interfaces. Interfaces contribute methods only, never properties.
func (idx *Index) resolveDeclaringMembers(ci *ClassInfo) {
	for _, trait := range ci.TraitUses {
		tr, ok := idx.Classes[trait]
		if !ok {
			continue
		}
		for mName, mInfo := range tr.Methods {
			if _, declared := ci.DeclaringMethodID[mName]; !declared {
				ci.DeclaringMethodID[mName] = trait + "::" + mName
				ci.Methods[mName] = mInfo
			}
		}
		for pName := range tr.Properties {
			if _, declared := ci.DeclaringClassForProperty[pName]; !declared {
				ci.DeclaringClassForProperty[pName] = trait
				ci.Properties[pName] = tr.Properties[pName]
			}
		}
	}

	for _, parent := range ci.AllParentClasses {
		pi, ok := idx.Classes[parent]
		if !ok {
			continue
		}
		for mName, mInfo := range pi.Methods {
			if _, declared := ci.DeclaringMethodID[mName]; !declared {
				ci.DeclaringMethodID[mName] = parent + "::" + mName
				ci.Methods[mName] = mInfo
			}
		}
		for pName, prop := range pi.Properties {
			if _, declared := ci.DeclaringClassForProperty[pName]; !declared {
				ci.DeclaringClassForProperty[pName] = parent
				ci.Properties[pName] = prop
			}
		}
	}

	for _, iface := range ci.AllClassInterfaces {
		ii, ok := idx.Classes[iface]
		if !ok {
			continue
		}
		for mName, mInfo := range ii.Methods {
			if _, declared := ci.DeclaringMethodID[mName]; !declared {
				ci.DeclaringMethodID[mName] = iface + "::" + mName
				ci.Methods[mName] = mInfo
			}
		}
	}
}
