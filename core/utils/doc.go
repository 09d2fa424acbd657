// Package utils provides small text helpers shared by extractors: full-width
// folding of scraped text and lenient number parsing.
package utils
