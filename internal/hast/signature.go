package hast

import (
	"github.com/hakana-go/hakana/internal/token"
	"github.com/minio/highwayhash"
)

// hashKey is a fixed, non-secret HighwayHash key: signature/body hashes are
// content fingerprints for change detection, not a security boundary, so a
// constant key keeps hashes stable across runs and processes.
var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

func contentHash(data []byte) uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		panic(err)
	}
	h.Write(data)
	return h.Sum64()
}

// SignatureKind classifies a SignatureNode for the Myers diff the
// incremental re-indexer runs between two parses of the same file.
type SignatureKind int

const (
	SigFunction SignatureKind = iota
	SigMethod
	SigClass
	SigInterface
	SigTrait
	SigEnum
	SigTypedef
	SigConst
	SigProperty
)

// SignatureNode is a reduced view of a top-level or class-member
// declaration: just enough to decide, via sequence diffing, whether a
// declaration was unchanged, had only its body edited (signature-stable),
// or was added/removed/renamed between two parses of the same file. The
// full Decl is kept alongside for when a body-only change still needs
// re-analysis.
type SignatureNode struct {
	Kind      SignatureKind
	Name      string // fully-qualified; for members, "Class::member"
	Signature string // canonical rendering of params/return/template bounds, excludes the body
	Pos       token.Position

	// SignatureHash is a content hash of Signature: two nodes with equal
	// Kind/Name/SignatureHash are the "keep" case. BodyHash additionally
	// hashes the node's full source span (signature and body); a node
	// whose SignatureHash matches but BodyHash differs is "keep_signature"
	// — unchanged externally, reanalyzed internally. BodyHash is zero when
	// ExtractSignatures was called without source bytes.
	SignatureHash uint64
	BodyHash      uint64

	Decl Decl
}

// ExtractSignatures walks a parsed Program and returns one SignatureNode
// per top-level declaration and per class member, in source order. The
// differ treats this slice as the sequence to diff against the previous
// parse's. source is the full file content the positions in p were
// computed against; pass nil to skip BodyHash (callers that only need
// signature-level comparison, such as tests built from synthetic ASTs with
// no real byte offsets).
func ExtractSignatures(p *Program, source []byte) []SignatureNode {
	var out []SignatureNode
	emit := func(n SignatureNode) SignatureNode {
		n.SignatureHash = contentHash([]byte(n.Signature))
		if source != nil {
			start, end := n.Pos.StartOffset, n.Pos.EndOffset
			if start >= 0 && end <= len(source) && start <= end {
				n.BodyHash = contentHash(source[start:end])
			}
		}
		return n
	}
	for _, d := range p.Decls {
		switch decl := d.(type) {
		case *FunctionLike:
			out = append(out, emit(SignatureNode{
				Kind:      SigFunction,
				Name:      decl.Name,
				Signature: renderFunctionSignature(decl),
				Pos:       decl.Pos(),
				Decl:      decl,
			}))
		case *ClassLike:
			out = append(out, emit(SignatureNode{
				Kind:      classSignatureKind(decl.Kind),
				Name:      decl.Name,
				Signature: renderClassSignature(decl),
				Pos:       decl.Pos(),
				Decl:      decl,
			}))
			for _, m := range decl.Methods {
				out = append(out, emit(SignatureNode{
					Kind:      SigMethod,
					Name:      decl.Name + "::" + m.Name,
					Signature: renderFunctionSignature(m),
					Pos:       m.Pos(),
					Decl:      m,
				}))
			}
		case *TypedefDecl:
			out = append(out, emit(SignatureNode{
				Kind:      SigTypedef,
				Name:      decl.Name,
				Signature: decl.Body.String(),
				Pos:       decl.Pos(),
				Decl:      decl,
			}))
		case *ConstDecl:
			out = append(out, emit(SignatureNode{
				Kind:      SigConst,
				Name:      decl.Name,
				Signature: decl.Type.String(),
				Pos:       decl.Pos(),
				Decl:      decl,
			}))
		}
	}
	return out
}

func classSignatureKind(k ClassKind) SignatureKind {
	switch k {
	case KindInterface:
		return SigInterface
	case KindTrait:
		return SigTrait
	case KindEnum:
		return SigEnum
	default:
		return SigClass
	}
}

func renderFunctionSignature(f *FunctionLike) string {
	s := f.Name + "("
	for i, p := range f.Params {
		if i > 0 {
			s += ","
		}
		s += p.Name + ":" + p.Type.String()
		if p.IsVariadic {
			s += "..."
		}
	}
	s += "):" + f.ReturnType.String()
	for _, t := range f.TemplateParams {
		s += "<" + t.Name + ">"
	}
	return s
}

func renderClassSignature(c *ClassLike) string {
	s := c.Name
	for _, p := range c.Parents {
		s += " extends " + p
	}
	for _, i := range c.Interfaces {
		s += " implements " + i
	}
	for _, t := range c.TemplateParams {
		s += "<" + t.Name + ">"
	}
	return s
}
