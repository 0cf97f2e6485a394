// Package textutil provides filename sanitization helpers. Search names are
// derived from user-pasted URLs, so path segments must be scrubbed of
// filesystem-unsafe characters before directories are created from them.
package textutil
