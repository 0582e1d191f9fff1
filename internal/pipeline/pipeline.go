// Package pipeline runs the four ETL stages in order: extract the source
// CSV, clean it, upload the cleaned file to HDFS, and register it in the
// warehouse. Stages hand their results to the next stage as typed values;
// a stage failure stops the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/config"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/extract"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/hdfs"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/metrics"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/transform"
	"github.com/A7md-Waly/RealEstate-ETL-Pipeline/internal/warehouse"
)

// Summary reports what one run did.
type Summary struct {
	// ExtractedRows is the row count read from the source CSV.
	ExtractedRows int

	// DroppedRows is the number of rows removed by the null-value pass.
	DroppedRows int

	// CleanedRows is the row count written to the cleaned CSV.
	CleanedRows int

	// UploadedBytes is the size HDFS reported for the uploaded file.
	UploadedBytes int64

	// WarehouseRows is the table row count after the load, or -1 when the
	// backend could not report one.
	WarehouseRows int64

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration
}

// Runner executes the pipeline described by one config.
type Runner struct {
	cfg  config.Pipeline
	hdfs *hdfs.Client
	wh   warehouse.Client
}

// New builds a Runner: it constructs the HDFS client and opens the configured
// warehouse backend. The caller must Close the Runner after the run.
func New(cfg config.Pipeline) (*Runner, error) {
	hc, err := hdfs.NewClient(hdfs.Config{
		BaseURL:    cfg.HDFS.NamenodeURL,
		User:       cfg.HDFS.User,
		Timeout:    time.Duration(cfg.HDFS.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.HDFS.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	wh, err := warehouse.Open(cfg.Warehouse)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	return &Runner{cfg: cfg, hdfs: hc, wh: wh}, nil
}

// Close releases the warehouse connection.
func (r *Runner) Close() error {
	return r.wh.Close()
}

// Run executes the four stages in order and returns the run summary. Each
// stage is timed and recorded against the job's metrics.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	sum := &Summary{WarehouseRows: -1}
	log.Printf("pipeline: starting job %s", r.cfg.Job)

	// extract
	ext := &extract.Extractor{Path: r.cfg.Input.Path}
	stageStart := time.Now()
	raw, err := ext.Run(ctx)
	metrics.RecordStage(r.cfg.Job, "extract", err, time.Since(stageStart))
	if err != nil {
		return nil, err
	}
	sum.ExtractedRows = raw.NumRows()
	metrics.RecordRows(r.cfg.Job, "extracted", int64(sum.ExtractedRows))

	// transform
	cleaner := &transform.Cleaner{
		OutputPath:       r.cfg.Output.Path,
		NormalizeColumns: r.cfg.Transform.NormalizeColumns,
	}
	stageStart = time.Now()
	cleaned, err := cleaner.Run(ctx, raw)
	metrics.RecordStage(r.cfg.Job, "transform", err, time.Since(stageStart))
	if err != nil {
		return nil, err
	}
	sum.CleanedRows = cleaned.NumRows()
	sum.DroppedRows = sum.ExtractedRows - sum.CleanedRows
	metrics.RecordRows(r.cfg.Job, "dropped_nulls", int64(sum.DroppedRows))
	metrics.RecordRows(r.cfg.Job, "cleaned", int64(sum.CleanedRows))

	// load
	stageStart = time.Now()
	uploaded, err := r.load(ctx)
	metrics.RecordStage(r.cfg.Job, "load", err, time.Since(stageStart))
	if err != nil {
		return nil, err
	}
	sum.UploadedBytes = uploaded
	metrics.RecordUploadBytes(r.cfg.Job, uploaded)

	// register
	stageStart = time.Now()
	count, err := r.register(ctx)
	metrics.RecordStage(r.cfg.Job, "register", err, time.Since(stageStart))
	if err != nil {
		return nil, err
	}
	sum.WarehouseRows = count
	if count >= 0 {
		metrics.RecordRows(r.cfg.Job, "loaded", count)
	}

	sum.Duration = time.Since(start)
	log.Printf("pipeline: job %s finished in %s", r.cfg.Job, sum.Duration.Round(time.Millisecond))
	return sum, nil
}

// load uploads the cleaned CSV to the configured HDFS path and returns the
// size HDFS reports for it. The target directory is created first; a
// directory that already exists is steady state, any other creation failure
// aborts the stage.
func (r *Runner) load(ctx context.Context) (int64, error) {
	dir := hdfs.Dir(r.cfg.HDFS.Path)
	if err := r.hdfs.Mkdirs(ctx, dir); err != nil {
		var re *hdfs.RemoteException
		if errors.As(err, &re) && re.AlreadyExists() {
			log.Printf("load: directory %s already exists", dir)
		} else {
			return 0, err
		}
	} else {
		log.Printf("load: ensured directory %s", dir)
	}

	data, err := os.ReadFile(r.cfg.Output.Path)
	if err != nil {
		return 0, fmt.Errorf("load: read cleaned file: %w", err)
	}

	if err := r.hdfs.Upload(ctx, r.cfg.HDFS.Path, data); err != nil {
		return 0, err
	}
	log.Printf("load: uploaded %s (%d bytes)", r.cfg.HDFS.Path, len(data))

	st, err := r.hdfs.Status(ctx, r.cfg.HDFS.Path)
	if err != nil {
		return 0, err
	}
	if st.Length != int64(len(data)) {
		log.Printf("load: size mismatch: sent %d bytes, hdfs reports %d", len(data), st.Length)
	} else {
		log.Printf("load: hdfs confirms %d bytes", st.Length)
	}
	return st.Length, nil
}

// register declares the warehouse table over the uploaded file's directory
// and loads the file into it.
//
// The load appends: re-running a completed run duplicates the table's rows.
func (r *Runner) register(ctx context.Context) (int64, error) {
	def := warehouse.SalesTable(r.cfg.Warehouse.Table, hdfs.Dir(r.cfg.HDFS.Path)+"/")
	if err := r.wh.EnsureTable(ctx, def); err != nil {
		return -1, err
	}

	src := warehouse.Source{
		LocalPath:  r.cfg.Output.Path,
		RemotePath: r.cfg.HDFS.Path,
	}
	count, err := r.wh.LoadFile(ctx, src, def)
	if err != nil {
		return -1, err
	}
	if count >= 0 {
		log.Printf("register: table %s now holds %d rows", def.Name, count)
	} else {
		log.Printf("register: table %s loaded (row count unavailable)", def.Name)
	}
	return count, nil
}
