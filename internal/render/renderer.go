// =============================================================================
// Contract Generator - Document Renderer
// =============================================================================
//
// Fills a DOCX contract template with the values of one normalized record.
// The template engine (go-docx) mutates its working container in place, and
// the same template bytes are reused for every row, so each invocation
// operates on an independent copy of the template. Output is always a new,
// complete document container.
//
// =============================================================================

package render

import (
	"bytes"
	"fmt"

	docx "github.com/lukasjarosch/go-docx"

	"github.com/cmslivestock/contractgen/internal/normalize"
)

// Engine fills a named placeholder set inside a document container and
// returns a new container. Implementations must not observably mutate the
// template bytes; calls are fully independent of each other.
type Engine interface {
	Fill(template []byte, record normalize.Record) ([]byte, error)
}

// =============================================================================
// DOCX ENGINE
// =============================================================================

// DocxEngine renders OOXML word-processing documents with {placeholder}
// substitution. Placeholder names are the canonical field keys,
// case-sensitive.
type DocxEngine struct{}

// NewEngine returns the production document engine.
func NewEngine() Engine {
	return DocxEngine{}
}

// Fill renders one document. The template slice is copied before parsing
// because the engine modifies its container in place.
func (DocxEngine) Fill(template []byte, record normalize.Record) ([]byte, error) {
	if len(template) == 0 {
		return nil, &RenderError{Reason: "no template loaded"}
	}

	working := make([]byte, len(template))
	copy(working, template)

	doc, err := docx.OpenBytes(working)
	if err != nil {
		return nil, &RenderError{Reason: "cannot open document container", Err: err}
	}
	defer doc.Close()

	placeholders := make(docx.PlaceholderMap, len(record))
	for key, value := range record {
		placeholders[key] = value
	}

	if err := doc.ReplaceAll(placeholders); err != nil {
		return nil, &RenderError{Reason: "placeholder substitution failed", Err: err}
	}

	var out bytes.Buffer
	if err := doc.Write(&out); err != nil {
		return nil, &RenderError{Reason: "cannot assemble output document", Err: err}
	}

	return out.Bytes(), nil
}

// =============================================================================
// ERROR TYPE
// =============================================================================

// RenderError reports a failed render of a single document. Render failures
// are isolated per row and per side; they never abort the pass.
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template rendering failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("template rendering failed: %s", e.Reason)
}

func (e *RenderError) Unwrap() error { return e.Err }
