package output

import (
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding, so one snapshot always encodes
// to the same bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("output: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		// Attribute values decode into map[string]any like they do from JSON.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("output: CBOR decoder initialization failed: " + err.Error())
	}
}

// MarshalCBOR encodes v deterministically.
func MarshalCBOR(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// UnmarshalCBOR decodes CBOR data into v.
func UnmarshalCBOR(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// WriteCBOR serializes v to w as a single CBOR item.
func WriteCBOR(w io.Writer, v any) error {
	if err := encMode.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("cbor encode: %w", err)
	}
	return nil
}
