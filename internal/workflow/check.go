package workflow

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed document.cue
var documentCUE string

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
	schemaErr   error
)

// CheckDocument validates the top-level shape of a workflow document: an
// object with list-valued "nodes" and "links" fields. JSON is a subset of
// CUE, so the raw bytes compile directly and unify against the embedded
// schema. Anything beyond the top-level shape (dangling links, unknown
// types, arity problems) is conversion's job, reported per node, never a
// reason to reject the document.
func CheckDocument(data []byte) error {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		schemaValue = ctx.CompileString(documentCUE)
		schemaErr = schemaValue.Err()
	})
	if schemaErr != nil {
		return fmt.Errorf("workflow schema: %w", schemaErr)
	}

	ctx := schemaValue.Context()
	doc := ctx.CompileBytes(data)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("workflow document: %s", cueerrors.Details(err, nil))
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Document")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("workflow document: %s", firstCUEError(err))
	}
	return nil
}

// firstCUEError extracts the first message from a CUE error list. Full
// position details are noise for a top-level shape failure.
func firstCUEError(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) > 0 {
		return errs[0].Error()
	}
	return err.Error()
}
