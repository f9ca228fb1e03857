// Package pack classifies game archives by their PFH header.
//
// Only the header is read. Everything after the type field (indexes, file
// data) is the game's business and is never parsed here.
package pack

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Type is the archive type stored in the header. The numeric order matters:
// the load order sorts by it, so Mod must stay below Movie.
type Type uint32

const (
	Boot Type = iota
	Release
	Patch
	Mod
	Movie
)

const typeMask = 0x0F

var typeNames = map[Type]string{
	Boot:    "Boot",
	Release: "Release",
	Patch:   "Patch",
	Mod:     "Mod",
	Movie:   "Movie",
}

var preambles = [][]byte{
	[]byte("PFH0"),
	[]byte("PFH2"),
	[]byte("PFH3"),
	[]byte("PFH4"),
	[]byte("PFH5"),
	[]byte("PFH6"),
}

// ErrNotPack is returned when a file doesn't start with a known preamble.
var ErrNotPack = errors.New("not a pack file")

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Other(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// IsLoadable reports whether archives of this type are user content.
func (t Type) IsLoadable() bool {
	return t == Mod || t == Movie
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	s := string(text)
	for typ, name := range typeNames {
		if name == s {
			*t = typ
			return nil
		}
	}
	if strings.HasPrefix(s, "Other(") && strings.HasSuffix(s, ")") {
		n, err := strconv.ParseUint(s[len("Other("):len(s)-1], 10, 32)
		if err == nil {
			*t = Type(n)
			return nil
		}
	}
	return fmt.Errorf("unknown pack type %q", s)
}

// Header is the part of a pack this launcher cares about.
type Header struct {
	Version string
	Type    Type
	Flags   uint32
}

// ReadHeader decodes the first 8 bytes of a pack.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Header{}, ErrNotPack
		}
		return Header{}, err
	}

	known := false
	for _, p := range preambles {
		if bytes.Equal(buf[:4], p) {
			known = true
			break
		}
	}
	if !known {
		return Header{}, ErrNotPack
	}

	raw := binary.LittleEndian.Uint32(buf[4:])
	return Header{
		Version: string(buf[:4]),
		Type:    Type(raw & typeMask),
		Flags:   raw &^ typeMask,
	}, nil
}

// WriteHeader writes a minimal header. Used to generate reserved packs and
// fixtures.
func WriteHeader(w io.Writer, version string, typ Type, flags uint32) error {
	if len(version) != 4 {
		return fmt.Errorf("invalid pack version %q", version)
	}
	var buf [8]byte
	copy(buf[:4], version)
	binary.LittleEndian.PutUint32(buf[4:], uint32(typ)|(flags&^typeMask))
	_, err := w.Write(buf[:])
	return err
}

// Reader is what the catalog needs from an archive: its type, or an error.
type Reader interface {
	ReadHeader(path string) (Header, error)
}

// FileReader reads headers straight from disk.
type FileReader struct{}

func (FileReader) ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	h, err := ReadHeader(f)
	if err != nil {
		return Header{}, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	return h, nil
}
