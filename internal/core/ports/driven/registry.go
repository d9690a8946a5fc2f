package driven

import "context"

// NormaliserRegistry selects the normaliser for a report by file extension,
// falling back to content sniffing for stdin and unknown extensions.
type NormaliserRegistry interface {
	// Normalise converts data read from name ("-" for stdin) to text.
	// Fails with domain.ErrUnsupportedFormat when no normaliser applies.
	Normalise(ctx context.Context, name string, data []byte) (string, error)

	// Register adds a normaliser. Later registrations win on conflicts.
	Register(normaliser Normaliser)

	// SupportedExtensions returns every registered extension, sorted.
	SupportedExtensions() []string
}
