package xmlcodec

import (
	"bytes"
	"context"

	"github.com/rezonia/rechnung/internal/model"
)

// Syntax identifies one of the two XML syntaxes EN 16931 permits.
type Syntax int

const (
	SyntaxUnknown Syntax = iota
	SyntaxUBL
	SyntaxCII
)

func (s Syntax) String() string {
	switch s {
	case SyntaxUBL:
		return "UBL"
	case SyntaxCII:
		return "CII"
	default:
		return "unknown"
	}
}

// Codec encodes and decodes Invoice values in one XML syntax.
type Codec interface {
	Encode(inv *model.Invoice) ([]byte, error)
	Decode(data []byte) (*model.Invoice, error)
	// Sniff reports whether data's root element belongs to this syntax.
	Sniff(data []byte) bool
	Syntax() Syntax
}

// Registry dispatches decode requests to the codec whose root element
// matches, the way the provider adapters in a parsing pipeline pick a
// handler by content sniffing rather than by file extension.
type Registry struct {
	codecs []Codec
}

// NewRegistry returns a Registry with the UBL and CII codecs registered.
// Order matters only in the degenerate case both Sniff methods agree; CII's
// root element name never collides with UBL's so this is not a concern here.
func NewRegistry() *Registry {
	return &Registry{
		codecs: []Codec{
			&ublCodec{},
			&ciiCodec{},
		},
	}
}

// Detect identifies the syntax of an XML document from its root element.
func (r *Registry) Detect(data []byte) (Codec, error) {
	for _, c := range r.codecs {
		if c.Sniff(data) {
			return c, nil
		}
	}
	return nil, model.NewXMLSyntaxError("unrecognised root element: neither UBL Invoice/CreditNote nor CII CrossIndustryInvoice", nil)
}

// Decode auto-detects the syntax and decodes into an Invoice.
func (r *Registry) Decode(_ context.Context, data []byte) (*model.Invoice, error) {
	c, err := r.Detect(data)
	if err != nil {
		return nil, err
	}
	return c.Decode(data)
}

// EncodeAs encodes an Invoice in the requested syntax.
func (r *Registry) EncodeAs(inv *model.Invoice, syntax Syntax) ([]byte, error) {
	for _, c := range r.codecs {
		if c.Syntax() == syntax {
			return c.Encode(inv)
		}
	}
	return nil, model.NewXMLSyntaxError("unsupported target syntax", nil)
}

func hasRootLocalName(data []byte, names ...string) bool {
	for _, n := range names {
		if bytes.Contains(data, []byte("<"+n)) || bytes.Contains(data, []byte(":"+n)) {
			return true
		}
	}
	return false
}
