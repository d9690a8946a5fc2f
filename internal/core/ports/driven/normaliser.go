package driven

import "context"

// Normaliser converts one lab report file format into the plain text sent
// to the extraction model.
type Normaliser interface {
	// SupportedExtensions returns the lower-case file extensions handled,
	// including the leading dot.
	SupportedExtensions() []string

	// SupportedMIMETypes returns the MIME types handled, used when a report
	// arrives without a usable file name.
	SupportedMIMETypes() []string

	// Normalise returns the readable text of the report. Malformed input
	// fails with domain.ErrInvalidInput.
	Normalise(ctx context.Context, data []byte) (string, error)
}
