// Package ocf rewrites Avro object container files as they stream past.
//
// The container package does the work; this package adapts it to io.Reader
// and io.Writer:
//
//	n, err := ocf.Strip(os.Stdin, os.Stdout, "ssn", "email")
//
// See the container package for the file layout and the supported codecs.
package ocf
