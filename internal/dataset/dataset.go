// Package dataset reads tourist registry extracts from JSON or XLSX files.
package dataset

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rta2map/internal/rental"
)

// Sentinel errors returned by Each and Load.
var (
	ErrDatasetNotFound = eris.New("dataset file not found")
	ErrDatasetParse    = eris.New("dataset parse error")
)

// Format is the on-disk encoding of a dataset.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the format from the file extension. Anything other than
// .xlsx is read as JSON.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatJSON
}

// Each reads the dataset at path and calls fn for every record in file order.
func Each(ctx context.Context, path string, fn func(rental.Record) error) error {
	log := zap.L().With(zap.String("component", "dataset"), zap.String("path", path))

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return eris.Wrapf(ErrDatasetNotFound, "dataset: %s", path)
		}
		return eris.Wrapf(err, "dataset: stat %s", path)
	}

	format := DetectFormat(path)
	log.Debug("reading dataset", zap.String("format", string(format)))

	switch format {
	case FormatXLSX:
		rows, err := ReadXLSX(path, XLSXOptions{})
		if err != nil {
			return eris.Wrapf(err, "dataset: %s", path)
		}
		records, err := RecordsFromRows(rows)
		if err != nil {
			return eris.Wrapf(err, "dataset: %s", path)
		}
		for _, r := range records {
			if ctx.Err() != nil {
				return eris.Wrap(ctx.Err(), "dataset: context cancelled")
			}
			if err := fn(r); err != nil {
				return err
			}
		}
		return nil

	default:
		f, err := os.Open(path)
		if err != nil {
			return eris.Wrapf(err, "dataset: open %s", path)
		}
		defer func() { _ = f.Close() }()

		if err := DecodeJSONArray(ctx, f, fn); err != nil {
			return eris.Wrapf(err, "dataset: %s", path)
		}
		return nil
	}
}

// Load reads every record of the dataset into memory.
func Load(ctx context.Context, path string) ([]rental.Record, error) {
	var records []rental.Record
	err := Each(ctx, path, func(r rental.Record) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
