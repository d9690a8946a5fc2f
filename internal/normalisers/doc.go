// Package normalisers converts lab report files into the plain text handed
// to the extraction model. Each sub-package handles one format; the Registry
// picks one by file extension or, for stdin, by sniffing the content.
//
// Normalisers are registered with the Registry at startup via RegisterDefaults.
package normalisers
