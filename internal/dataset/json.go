package dataset

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeJSONArray decodes a JSON array element by element, calling fn for
// each one in order. Expects input in the form [{...},{...}]. Decoding stops
// at the first error returned by fn.
func DecodeJSONArray[T any](ctx context.Context, r io.Reader, fn func(T) error) error {
	decoder := json.NewDecoder(r)

	// Expect opening bracket
	tok, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return eris.Wrap(ErrDatasetParse, "json: empty input")
		}
		return eris.Wrapf(ErrDatasetParse, "json: read opening token: %v", err)
	}

	delim, ok := tok.(json.Delim)
	if !ok || delim != '[' {
		return eris.Wrapf(ErrDatasetParse, "json: expected '[', got %v", tok)
	}

	for i := 0; decoder.More(); i++ {
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "json: context cancelled")
		}

		var item T
		if err := decoder.Decode(&item); err != nil {
			return eris.Wrapf(ErrDatasetParse, "json: decode element %d: %v", i, err)
		}

		if err := fn(item); err != nil {
			return err
		}
	}

	// Consume closing bracket
	if _, err := decoder.Token(); err != nil {
		return eris.Wrapf(ErrDatasetParse, "json: read closing token: %v", err)
	}

	// Nothing but whitespace may follow the array.
	if tok, err := decoder.Token(); err != io.EOF {
		if err != nil {
			return eris.Wrapf(ErrDatasetParse, "json: after closing bracket: %v", err)
		}
		return eris.Wrapf(ErrDatasetParse, "json: unexpected %v after closing bracket", tok)
	}
	return nil
}
