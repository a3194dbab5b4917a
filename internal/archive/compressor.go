package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression codecs follow the same function-table shape as the
// serializers. "none" is a valid algorithm and passes the payload through.

type codec struct {
	compress   func(payload []byte, level int) ([]byte, error)
	decompress func(data []byte) ([]byte, error)
}

var codecs = map[Algorithm]codec{
	AlgorithmNone: {compress: passthrough, decompress: passthroughR},
	AlgorithmGzip: {compress: gzipCompress, decompress: gzipDecompress},
	AlgorithmZstd: {compress: zstdCompress, decompress: zstdDecompress},
}

// Compress compresses a serialized payload with the given algorithm. A level
// of zero or below selects the codec's default.
func Compress(algorithm Algorithm, level int, payload []byte) ([]byte, error) {
	c, ok := codecs[algorithm]
	if !ok {
		return nil, &UnsupportedCompressionError{Algorithm: algorithm}
	}
	return c.compress(payload, level)
}

// Decompress recovers the serialized payload from compressed archive data.
func Decompress(algorithm Algorithm, data []byte) ([]byte, error) {
	c, ok := codecs[algorithm]
	if !ok {
		return nil, &UnsupportedCompressionError{Algorithm: algorithm}
	}
	return c.decompress(data)
}

func passthrough(payload []byte, _ int) ([]byte, error) {
	return append([]byte(nil), payload...), nil
}

func passthroughR(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func gzipCompress(payload []byte, level int) ([]byte, error) {
	if level <= 0 || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("gzip writer: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return nil, fmt.Errorf("gzip compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip flush: %w", err)
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer r.Close()
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	return payload, nil
}

func zstdCompress(payload []byte, level int) ([]byte, error) {
	opts := []zstd.EOption{}
	if level > 0 {
		opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	}
	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(payload, nil), nil
}

func zstdDecompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()
	payload, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return payload, nil
}
