// Package errors provides structured error handling for the compendium pipeline.
//
// Errors carry a code, a message, and optional metadata:
//
//	err := errors.NotFound("no compendium pages for Fireball")
//	err := errors.InvalidArgumentf("unknown record type %q", t).
//	    WithMeta("record", rec.Name)
//
// Wrapping preserves the original code:
//
//	if err := store.Create(ctx, in); err != nil {
//	    return errors.Wrap(err, "failed to commit spell")
//	}
//
// Checking:
//
//	if errors.IsNotFound(err) { ... }
//	switch errors.GetCode(err) { ... }
//
// The ValidationBuilder accumulates field-level problems and builds a single
// InvalidArgument error, used by Config.Validate methods throughout the
// codebase.
package errors
