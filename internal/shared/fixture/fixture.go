// Package fixture persists ordered header sequences to disk in either
// MessagePack or JSON, for replaying captures through the hpack codec and
// for loomctl's encode/decode/inspect subcommands.
package fixture

import (
	"encoding/hex"
	"errors"
	"os"

	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"

	"loom/internal/shared/checksum"
	"loom/internal/shared/compression/hpack"
)

// ErrEmptyFixture is returned when loading a zero-length file.
var ErrEmptyFixture = errors.New("fixture: empty input")

// ErrChecksumMismatch is returned when a loaded fixture's stored digest does
// not match the digest of its own header data — a corrupted fixture must
// fail distinctly from a merely malformed one, rather than being handed to
// the codec as if it were valid input.
var ErrChecksumMismatch = errors.New("fixture: checksum mismatch")

// Hint carries the optional encoder guidance attached to one header in a
// saved set: a static-table index hint and the index policy to re-encode
// with.
type Hint struct {
	StaticIndex uint32          `json:"static_index,omitempty" msgpack:"static_index,omitempty"`
	Policy      hpack.IndexPolicy `json:"policy" msgpack:"policy"`
}

// Entry is one recorded header field plus its replay hint.
type Entry struct {
	Name  string `json:"name" msgpack:"name"`
	Value string `json:"value" msgpack:"value"`
	Hint  Hint   `json:"hint" msgpack:"hint"`
}

// HeaderSet is an ordered sequence of header fields, the unit of fixture
// persistence and capture-relay fan-out.
type HeaderSet struct {
	Headers []Entry `json:"headers" msgpack:"headers"`
}

// Field converts one entry back to a bare hpack.HeaderField.
func (e Entry) Field() hpack.HeaderField {
	return hpack.HeaderField{Name: e.Name, Value: e.Value}
}

type fixtureFile struct {
	Checksum string    `json:"checksum" msgpack:"checksum"`
	Set      HeaderSet `json:"set" msgpack:"set"`
}

func headerPayload(hs *HeaderSet) ([]byte, error) {
	return msgpack.Marshal(hs)
}

func digestOf(hs *HeaderSet) (string, error) {
	payload, err := headerPayload(hs)
	if err != nil {
		return "", err
	}
	sum := checksum.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// SaveFixture writes hs to path as MessagePack, with a BLAKE2b-256 digest
// of the header payload embedded alongside it.
func SaveFixture(path string, hs *HeaderSet) error {
	return save(path, hs, false)
}

// SaveFixtureJSON writes hs to path as JSON, using a leading-byte
// version-detection convention so LoadFixture can tell the two formats
// apart without a file extension.
func SaveFixtureJSON(path string, hs *HeaderSet) error {
	return save(path, hs, true)
}

func save(path string, hs *HeaderSet, asJSON bool) error {
	sum, err := digestOf(hs)
	if err != nil {
		return err
	}
	ff := fixtureFile{Checksum: sum, Set: *hs}

	var out []byte
	if asJSON {
		out, err = json.Marshal(ff)
	} else {
		out, err = msgpack.Marshal(ff)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// LoadFixture reads a fixture from path, auto-detecting JSON (leading '{')
// versus MessagePack (anything else), and verifies its embedded checksum.
func LoadFixture(path string) (*HeaderSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeFixture(raw)
}

// DecodeFixture parses a fixture already read into memory.
func DecodeFixture(raw []byte) (*HeaderSet, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyFixture
	}

	var ff fixtureFile
	var err error
	if raw[0] == '{' {
		err = json.Unmarshal(raw, &ff)
	} else {
		err = msgpack.Unmarshal(raw, &ff)
	}
	if err != nil {
		return nil, err
	}

	want, err := digestOf(&ff.Set)
	if err != nil {
		return nil, err
	}
	if want != ff.Checksum {
		return nil, ErrChecksumMismatch
	}

	return &ff.Set, nil
}
