package log

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// FormatVersion is the .rlog layout written by this package.
const FormatVersion uint8 = 1

const headerMagic = "RLOG"

// Log file errors.
var (
	ErrNotRendererLog     = errors.New("not a renderer control log")
	ErrUnsupportedVersion = errors.New("unsupported log format version")
)

// Header is the first record of every .rlog file. It is encoded as a CBOR
// array so it can never be mistaken for an event map.
type Header struct {
	_       struct{} `cbor:",toarray"`
	Magic   string
	Version uint8
	Created time.Time
}

// NewHeader returns the header for a file created at t.
func NewHeader(t time.Time) Header {
	return Header{Magic: headerMagic, Version: FormatVersion, Created: t.UTC()}
}

// Validate reports whether h opens a log this package can read.
func (h Header) Validate() error {
	if h.Magic != headerMagic {
		return fmt.Errorf("%w: magic %q", ErrNotRendererLog, h.Magic)
	}
	if h.Version == 0 || h.Version > FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	return nil
}

var (
	logEncMode cbor.EncMode
	logDecMode cbor.DecMode
)

func init() {
	var err error

	logEncMode, err = cbor.EncOptions{
		Sort:          cbor.SortCoreDeterministic,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: cbor encode mode: %v", err))
	}

	// Events from newer writers may carry keys this reader does not know.
	logDecMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthForbidden,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
		MaxNestedLevels:   16,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: cbor decode mode: %v", err))
	}
}

// EncodeEvent encodes one event as a standalone CBOR item.
func EncodeEvent(event Event) ([]byte, error) {
	return logEncMode.Marshal(event)
}

// readHeader decodes and validates the header at the start of a log stream.
// An empty stream yields io.EOF.
func readHeader(dec *cbor.Decoder) (Header, error) {
	var h Header
	if err := dec.Decode(&h); err != nil {
		if errors.Is(err, io.EOF) {
			return Header{}, io.EOF
		}
		return Header{}, fmt.Errorf("%w: %v", ErrNotRendererLog, err)
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}
