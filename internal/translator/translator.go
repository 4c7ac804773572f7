// Package translator defines the translation provider boundary. The
// pipeline only ever needs one operation, so any backend that can turn a
// piece of text into a target language plugs in here.
package translator

import "context"

// Translator translates a single piece of text into the target language.
// Implementations must be safe for concurrent use; the batch pipeline
// calls Translate from multiple workers at once.
type Translator interface {
	Translate(ctx context.Context, text string, targetLang string) (string, error)
}

// Func adapts a plain function to the Translator interface.
type Func func(ctx context.Context, text string, targetLang string) (string, error)

func (f Func) Translate(ctx context.Context, text string, targetLang string) (string, error) {
	return f(ctx, text, targetLang)
}
