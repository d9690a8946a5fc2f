// Package html provides a Normaliser for lab reports exported as HTML.
// Scripts, styles and markup are removed; table cells stay on one line so a
// biomarker keeps its value and unit next to it.
package html
