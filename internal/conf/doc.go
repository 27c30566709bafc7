// Package conf implements the installer configuration dialect.
//
// The dialect is a shell-assignment style format with two conventions
// layered on top: candidate lists with a disable sentinel, and per-key
// cardinality.
//
// # Syntax
//
// A document is a sequence of lines:
//
//	# full-line comment
//	DEVICE="!/dev/sda /dev/nvme0n1 !/dev/mmcblk0"  # trailing comment
//	HOSTNAME=archbox
//	GREETING='no $interpolation here'
//	KERNELS=(
//	    "linux"
//	    "!linux-lts"
//	)
//
// Keys match ^[A-Za-z_][A-Za-z0-9_]*$. Values may be double-quoted,
// single-quoted, bare, or array literals. Array literals may span lines.
// Double-quoted and bare values are interpolated; single-quoted values
// are literal.
//
// # Candidates
//
// A value may hold several whitespace-separated candidate tokens. A
// leading '!' marks a candidate as disabled: it stays in the document
// for toggling but is ignored during resolution. A key with Single
// cardinality may have at most one enabled candidate; Multiple keeps
// all enabled candidates in order. Zero enabled candidates is a valid
// resolution for either cardinality.
//
// # Interpolation
//
// $NAME and ${NAME} substitute the resolved value of a key declared
// earlier in the document. Referencing a key that is not yet resolved
// is an error. $$ produces a literal dollar sign.
//
// # Resolution
//
// Parse produces a Document that round-trips byte-identically for
// untouched input. Resolve walks the document in declaration order and
// produces a Config, or the first typed error: ParseError,
// CardinalityError, or UnboundReferenceError. There is no partial
// result; a failed resolve returns nil.
//
// The package performs no I/O. Callers read and write files.
package conf
