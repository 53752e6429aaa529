// Package dmi reads DMI icon files. A DMI file is a PNG whose metadata
// block lives in a zTXt (or tEXt) chunk under the "Description" keyword;
// this package walks the container, extracts that text, and hands it to
// dmiparser. Pixel data is never decoded.
package dmi

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/martinemde/dmi/dmiparser"
)

// ErrNoMetadata is returned when the container holds no DMI metadata
// chunk before IEND.
var ErrNoMetadata = errors.New("dmi: no metadata chunk found")

// metadataKeyword is the PNG text-chunk keyword the DMI encoder uses.
const metadataKeyword = "Description"

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ReadFile extracts and parses the metadata block from a DMI file on disk.
func ReadFile(path string) (*dmiparser.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening DMI file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read extracts and parses the metadata block from DMI container bytes.
func Read(r io.Reader) (*dmiparser.Metadata, error) {
	text, err := ExtractText(r)
	if err != nil {
		return nil, err
	}
	meta, err := dmiparser.Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	return meta, nil
}

// ExtractText walks the PNG chunk stream and returns the raw metadata
// text: the payload of the first zTXt or tEXt chunk whose keyword is
// "Description". Chunk CRCs are verified. Returns ErrNoMetadata if no
// such chunk appears before IEND.
func ExtractText(r io.Reader) (string, error) {
	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil {
		return "", fmt.Errorf("reading PNG signature: %w", err)
	}
	if !bytes.Equal(sig, pngSignature) {
		return "", errors.New("dmi: not a PNG container")
	}

	for {
		chunkType, data, err := readChunk(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrNoMetadata
			}
			return "", err
		}

		switch chunkType {
		case "IEND":
			return "", ErrNoMetadata
		case "zTXt":
			text, ok, err := decodeZTXt(data)
			if err != nil {
				return "", err
			}
			if ok {
				return text, nil
			}
		case "tEXt":
			if text, ok := decodeTEXt(data); ok {
				return text, nil
			}
		}
	}
}

// readChunk reads one PNG chunk and verifies its CRC.
func readChunk(r io.Reader) (string, []byte, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return "", nil, io.EOF
		}
		return "", nil, err
	}

	length := binary.BigEndian.Uint32(header[:4])
	chunkType := string(header[4:8])

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", nil, fmt.Errorf("reading %s chunk: %w", chunkType, err)
	}

	var crcBuf [4]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		return "", nil, fmt.Errorf("reading %s chunk CRC: %w", chunkType, err)
	}

	crc := crc32.NewIEEE()
	crc.Write(header[4:8])
	crc.Write(data)
	if crc.Sum32() != binary.BigEndian.Uint32(crcBuf[:]) {
		return "", nil, fmt.Errorf("dmi: CRC mismatch in %s chunk", chunkType)
	}

	return chunkType, data, nil
}

// decodeZTXt decodes a zTXt chunk: keyword, NUL, compression method byte,
// zlib-compressed text. Returns ok=false when the keyword is not the
// metadata keyword.
func decodeZTXt(data []byte) (string, bool, error) {
	keyword, rest, found := bytes.Cut(data, []byte{0})
	if !found || string(keyword) != metadataKeyword {
		return "", false, nil
	}
	if len(rest) < 1 {
		return "", false, errors.New("dmi: truncated zTXt chunk")
	}
	if rest[0] != 0 {
		return "", false, fmt.Errorf("dmi: unsupported zTXt compression method %d", rest[0])
	}

	zr, err := zlib.NewReader(bytes.NewReader(rest[1:]))
	if err != nil {
		return "", false, fmt.Errorf("decompressing metadata: %w", err)
	}
	defer zr.Close()

	text, err := io.ReadAll(zr)
	if err != nil {
		return "", false, fmt.Errorf("decompressing metadata: %w", err)
	}
	return string(text), true, nil
}

// decodeTEXt decodes a tEXt chunk: keyword, NUL, uncompressed text. Some
// encoders write the metadata uncompressed when it is small.
func decodeTEXt(data []byte) (string, bool) {
	keyword, rest, found := bytes.Cut(data, []byte{0})
	if !found || string(keyword) != metadataKeyword {
		return "", false
	}
	return string(rest), true
}
