package port

import "context"

// TextExtractor turns raw document bytes into plain text for parsing.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}
