// Package domain contains the entities shared by the extractor packages:
// the input business rows, the social platforms the scanner recognizes and
// the per-business extraction results written to the output file. The types
// are free of infrastructure concerns.
package domain
