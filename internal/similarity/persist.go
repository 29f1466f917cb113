package similarity

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

var fileMagic = [4]byte{'R', 'M', 'S', 'M'}

const fileVersion uint32 = 1

// ErrFormat is returned when a matrix file is not in the expected format.
var ErrFormat = errors.New("invalid matrix file")

// Save writes the matrix to path, creating the directory if needed. The file is written to a
// temporary name and renamed into place. Format (little-endian): magic (4), version (4),
// mode length (4) and bytes, fingerprint length (4) and bytes, n (4), then n*n float32 values.
func (m *Matrix) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create matrix dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create matrix file: %w", err)
	}
	if err := m.write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close matrix file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename matrix file: %w", err)
	}
	return nil
}

func (m *Matrix) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(fileMagic[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, fileVersion); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if err := writeString(bw, m.Mode); err != nil {
		return fmt.Errorf("write mode: %w", err)
	}
	if err := writeString(bw, m.Fingerprint); err != nil {
		return fmt.Errorf("write fingerprint: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(m.n)); err != nil {
		return fmt.Errorf("write size: %w", err)
	}
	var buf [4]byte
	for _, v := range m.data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			return fmt.Errorf("write values: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush matrix: %w", err)
	}
	return nil
}

// Load reads a matrix written by Save. A missing file returns an error satisfying
// errors.Is(err, os.ErrNotExist). The file size must match the size its header declares.
func Load(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open matrix file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat matrix file: %w", err)
	}
	return read(bufio.NewReader(f), info.Size())
}

// read decodes a matrix from r, whose total length is size bytes.
func read(r io.Reader, size int64) (*Matrix, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: read magic: %v", ErrFormat, err)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, magic[:])
	}
	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("%w: read version: %v", ErrFormat, err)
	}
	if version != fileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
	}
	mode, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read mode: %v", ErrFormat, err)
	}
	fp, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read fingerprint: %v", ErrFormat, err)
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("%w: read size: %v", ErrFormat, err)
	}
	if n == 0 || n > maxEntries {
		return nil, fmt.Errorf("%w: bad size %d", ErrFormat, n)
	}
	header := int64(4+4+4+len(mode)+4+len(fp)) + 4
	if want := header + int64(n)*int64(n)*4; size != want {
		return nil, fmt.Errorf("%w: file is %d bytes, header declares %d", ErrFormat, size, want)
	}
	m := &Matrix{n: int(n), Mode: mode, Fingerprint: fp}
	raw := make([]byte, int(n)*int(n)*4)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: read values: %v", ErrFormat, err)
	}
	m.data = make([]float32, int(n)*int(n))
	for i := range m.data {
		m.data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return m, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

const (
	maxHeaderString = 1 << 16
	maxEntries      = 1 << 20
)

func readString(r io.Reader) (string, error) {
	var l uint32
	if err := binary.Read(r, binary.LittleEndian, &l); err != nil {
		return "", err
	}
	if l > maxHeaderString {
		return "", fmt.Errorf("string length %d too large", l)
	}
	b := make([]byte, l)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
