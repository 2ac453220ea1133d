package codebase

import "github.com/hakana-go/hakana/internal/hast"

// IndexDeclarations runs pass 1 over one parsed file: record every
// top-level declaration, without yet resolving forward-referencing
// parameter/return types. Class-likes are recorded with their own
// Parents/Interfaces/TraitUses only; transitive closures are computed
// afterward by ComputeClosures once every file in the batch has gone
// through this pass, since a class may extend a class declared in a file
// indexed later in the batch.
func (idx *Index) IndexDeclarations(file string, prog *hast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *hast.FunctionLike:
			idx.Functions[decl.Name] = &FunctionInfo{
				Name:             decl.Name,
				Params:           decl.Params,
				ReturnType:       decl.ReturnType,
				Effects:          decl.Effects,
				Templates:        decl.TemplateParams,
				WhereConstraints: decl.WhereConstraints,
				File:             file,
				Decl:             decl,
			}
		case *hast.ClassLike:
			idx.indexClassLike(file, decl)
		case *hast.TypedefDecl:
			idx.Typedefs[decl.Name] = &TypedefInfo{
				Name: decl.Name, Params: decl.Params, Body: decl.Body, File: file,
			}
		case *hast.ConstDecl:
			idx.Consts[decl.Name] = &ConstInfo{Name: decl.Name, Type: decl.Type, File: file}
		}
	}
}

func (idx *Index) indexClassLike(file string, decl *hast.ClassLike) {
	ci := &ClassInfo{
		Name:                      decl.Name,
		Kind:                      decl.Kind,
		Parents:                   decl.Parents,
		Interfaces:                decl.Interfaces,
		TraitUses:                 decl.TraitUses,
		Templates:                 decl.TemplateParams,
		Methods:                   make(map[string]*FunctionInfo, len(decl.Methods)),
		Properties:                make(map[string]hast.Property, len(decl.Properties)),
		Constants:                 make(map[string]hast.ClassConst, len(decl.Constants)),
		IsFinal:                   decl.IsFinal,
		File:                      file,
		Decl:                      decl,
		DeclaringClassForProperty: make(map[string]string),
		DeclaringMethodID:         make(map[string]string),
	}
	for _, m := range decl.Methods {
		ci.Methods[m.Name] = &FunctionInfo{
			Name:             m.Name,
			ClassName:        decl.Name,
			Params:           m.Params,
			ReturnType:       m.ReturnType,
			Effects:          m.Effects,
			Templates:        m.TemplateParams,
			WhereConstraints: m.WhereConstraints,
			Visibility:       m.Visibility,
			IsStatic:         m.IsStatic,
			IsAbstract:       m.IsAbstract,
			File:             file,
			Decl:             m,
		}
		ci.DeclaringMethodID[m.Name] = decl.Name + "::" + m.Name
	}
	for _, p := range decl.Properties {
		ci.Properties[p.Name] = p
		ci.DeclaringClassForProperty[p.Name] = decl.Name
	}
	for _, c := range decl.Constants {
		ci.Constants[c.Name] = c
	}
	idx.Classes[decl.Name] = ci
}
