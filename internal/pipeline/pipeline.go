// Package pipeline runs the registry-to-map transform: load the dataset,
// filter, project and classify each record, then render the map.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rta2map/internal/config"
	"github.com/sells-group/rta2map/internal/dataset"
	"github.com/sells-group/rta2map/internal/mapdoc"
	"github.com/sells-group/rta2map/internal/projection"
	"github.com/sells-group/rta2map/internal/rental"
)

// Summary counts what happened to the records of one run.
type Summary struct {
	RunID      string
	Total      int
	Accepted   int
	Rejected   int
	Skipped    int // accepted but with malformed coordinates
	Hidden     int // classified blue, kept off the map
	Rendered   int
	Rejections map[rental.Rejection]int
	Output     string
	Shapefile  string
}

// Pipeline holds the per-run settings resolved from the config.
type Pipeline struct {
	cfg    *config.Config
	filter *rental.Filter
	zone   projection.Zone
}

// New validates cfg and prepares a pipeline.
func New(cfg *config.Config) (*Pipeline, error) {
	if cfg == nil {
		return nil, eris.New("pipeline: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	filter, err := rental.NewFilter(cfg.ReProv, cfg.ReMunicipio)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build filter")
	}

	return &Pipeline{
		cfg:    cfg,
		filter: filter,
		zone:   projection.Zone{Number: cfg.UTMZone, North: cfg.North()},
	}, nil
}

// Zone returns the UTM zone all records are projected from.
func (p *Pipeline) Zone() projection.Zone {
	return p.zone
}

// Center returns the initial map centre. An explicit lat_centro/lon_centro
// wins; when both are zero and a UTM centre is configured, it is projected.
func (p *Pipeline) Center() (lat, lon float64, err error) {
	c := p.cfg
	if c.LatCentro == 0 && c.LonCentro == 0 && (c.CenterEasting != 0 || c.CenterNorthing != 0) {
		lat, lon, err = projection.ToGeographic(c.CenterEasting, c.CenterNorthing, p.zone)
		if err != nil {
			return 0, 0, eris.Wrap(err, "pipeline: project map centre")
		}
		return lat, lon, nil
	}
	return c.LatCentro, c.LonCentro, nil
}

// Build reads the dataset and returns the populated map without writing it.
func (p *Pipeline) Build(ctx context.Context) (*mapdoc.Document, *Summary, error) {
	summary := &Summary{
		RunID:      uuid.New().String(),
		Rejections: make(map[rental.Rejection]int),
	}
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("run_id", summary.RunID))

	lat, lon, err := p.Center()
	if err != nil {
		return nil, nil, err
	}
	log.Info("map centre",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.String("crs", p.zone.String()),
	)

	doc, err := mapdoc.New(mapdoc.View{
		Lat:   lat,
		Lon:   lon,
		Zoom:  p.cfg.ZoomStart,
		Tiles: p.cfg.Tiles,
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "pipeline: create map")
	}

	err = dataset.Each(ctx, p.cfg.File, func(r rental.Record) error {
		summary.Total++

		if reason := p.filter.Reason(r); reason != rental.RejectNone {
			summary.Rejected++
			summary.Rejections[reason]++
			return nil
		}
		summary.Accepted++

		m, err := rental.Classify(r, p.zone, p.cfg.CircRadio)
		if err != nil {
			if p.cfg.Strict {
				return err
			}
			summary.Skipped++
			log.Warn("skipping record", zap.String("code", r.Code.Text), zap.Error(err))
			return nil
		}

		if doc.Add(m) {
			summary.Rendered++
		} else {
			summary.Hidden++
		}
		return nil
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "pipeline: process dataset")
	}

	log.Info("dataset processed",
		zap.Int("total", summary.Total),
		zap.Int("accepted", summary.Accepted),
		zap.Int("rejected", summary.Rejected),
		zap.Int("skipped", summary.Skipped),
		zap.Int("hidden", summary.Hidden),
		zap.Int("rendered", summary.Rendered),
	)
	return doc, summary, nil
}

// Run builds the map and writes the HTML file, plus the shapefile when one
// is configured. Nothing is written if any step before it fails.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	doc, summary, err := p.Build(ctx)
	if err != nil {
		return nil, err
	}

	if err := doc.WriteFile(p.cfg.FileOut); err != nil {
		return nil, eris.Wrap(err, "pipeline: write map")
	}
	summary.Output = p.cfg.FileOut

	if p.cfg.ShapefileOut != "" {
		if err := mapdoc.WriteShapefile(p.cfg.ShapefileOut, doc.Markers()); err != nil {
			return nil, eris.Wrap(err, "pipeline: write shapefile")
		}
		summary.Shapefile = p.cfg.ShapefileOut
	}

	return summary, nil
}
