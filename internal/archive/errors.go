package archive

import "fmt"

// UnsupportedFormatError is returned when a serialization format has no
// registered codec. The archive is not created and no side effects occur.
type UnsupportedFormatError struct {
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported serialization format %q", string(e.Format))
}

// UnsupportedCompressionError is returned when a compression algorithm has
// no registered codec. The archive is not created and no side effects occur.
type UnsupportedCompressionError struct {
	Algorithm Algorithm
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("unsupported compression algorithm %q", string(e.Algorithm))
}
