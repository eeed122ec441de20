// Package report writes mismatch cases to disk so a failing seed can be
// replayed and inspected without rerunning the simulation.
package report

import (
	"archive/tar"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"sqlsim/internal/db"
	"sqlsim/internal/schema"
	"sqlsim/internal/util"
)

// Reporter writes case artifacts to disk.
type Reporter struct {
	OutputDir       string
	MaxDataDumpRows int
	UseUUIDPath     bool
	caseSeq         int
}

// Case describes a report directory.
type Case struct {
	ID  string
	Dir string
}

// Summary captures the persisted metadata for a case.
type Summary struct {
	Seed             int64          `json:"seed"`
	Step             int            `json:"step"`
	Driver           string         `json:"driver"`
	Kind             string         `json:"kind"`
	SQL              string         `json:"sql"`
	Expected         []string       `json:"expected"`
	Actual           []string       `json:"actual"`
	ExpectedAffected int            `json:"expected_affected"`
	ActualAffected   int            `json:"actual_affected"`
	Error            string         `json:"error"`
	ErrorReason      string         `json:"error_reason"`
	UploadLocation   string         `json:"upload_location"`
	CaseID           string         `json:"case_id"`
	CaseDir          string         `json:"case_dir"`
	ArchiveName      string         `json:"archive_name"`
	ArchiveCodec     string         `json:"archive_codec"`
	Details          map[string]any `json:"details"`
	Timestamp        string         `json:"timestamp"`
}

// New creates a reporter that writes to outputDir.
func New(outputDir string, maxRows int) *Reporter {
	return &Reporter{OutputDir: outputDir, MaxDataDumpRows: maxRows}
}

// NewCase allocates a new case directory.
func (r *Reporter) NewCase() (Case, error) {
	r.caseSeq++
	caseID := uuid.New().String()
	if v7, err := uuid.NewV7(); err == nil {
		caseID = v7.String()
	}
	caseDir := fmt.Sprintf("case_%04d_%s", r.caseSeq, caseID)
	if r.UseUUIDPath {
		caseDir = caseID
	}
	dir := filepath.Join(r.OutputDir, caseDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Case{}, errors.Wrap(err, "create case dir")
	}
	_ = os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Reproduce Case\n\n- Replay statements: plan.sql (in order, on an empty database)\n- Expected schema: schema.sql\n- Expected rows: expected.tsv; engine rows: actual.tsv\n- Rerun: sqlsim -seed <seed> -steps <step+1>\n"), 0o644)
	return Case{ID: caseID, Dir: dir}, nil
}

const (
	CaseArchiveName  = "case.tar.zst"
	CaseArchiveCodec = "zstd"
)

// WriteSummary writes summary.json into the case directory. Map keys in
// Details are written sorted at every depth.
func (r *Reporter) WriteSummary(c Case, summary Summary) error {
	f, err := os.Create(filepath.Join(c.Dir, "summary.json"))
	if err != nil {
		return err
	}
	defer util.CloseWithErr(f, "summary output")
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(summary)
}

// WriteSQL writes a SQL file from the provided statements.
func (r *Reporter) WriteSQL(c Case, name string, statements []string) error {
	content := ""
	if len(statements) > 0 {
		content = strings.Join(statements, ";\n") + ";\n"
	}
	return r.WriteText(c, name, content)
}

// WriteText writes raw text content into the case directory.
func (r *Reporter) WriteText(c Case, name string, content string) error {
	path := filepath.Join(c.Dir, name)
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// WriteCaseArchive creates a compressed archive for the case directory.
func (r *Reporter) WriteCaseArchive(c Case) (name string, codec string, err error) {
	archivePath := filepath.Join(c.Dir, CaseArchiveName)
	if removeErr := os.Remove(archivePath); removeErr != nil && !os.IsNotExist(removeErr) {
		return "", "", removeErr
	}
	defer func() {
		if err != nil {
			_ = os.Remove(archivePath)
		}
	}()
	file, err := os.Create(archivePath)
	if err != nil {
		return "", "", err
	}
	defer util.CloseWithErr(file, "archive output")

	zw, err := zstd.NewWriter(file)
	if err != nil {
		return "", "", err
	}
	defer func() {
		if closeErr := zw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	tw := tar.NewWriter(zw)
	defer func() {
		if closeErr := tw.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	walkErr := filepath.WalkDir(c.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path == archivePath {
			return nil
		}
		rel, err := filepath.Rel(c.Dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer util.CloseWithErr(src, "archive source")
		_, err = io.Copy(tw, src)
		return err
	})
	if walkErr != nil {
		return "", "", walkErr
	}
	return CaseArchiveName, CaseArchiveCodec, nil
}

// DumpSchema writes schema.sql describing the shadow model's tables.
func (r *Reporter) DumpSchema(c Case, state *schema.State) error {
	var b strings.Builder
	for i := len(state.Tables) - 1; i >= 0; i-- {
		b.WriteString(fmt.Sprintf("DROP TABLE IF EXISTS %s;\n", state.Tables[i].Name))
	}
	for _, tbl := range state.Tables {
		cols := make([]string, 0, len(tbl.Columns))
		for _, col := range tbl.Columns {
			cols = append(cols, fmt.Sprintf("%s %s", col.Name, col.Type.SQLType()))
		}
		b.WriteString(fmt.Sprintf("CREATE TABLE %s (%s);\n", tbl.Name, strings.Join(cols, ", ")))
		for _, idx := range tbl.Indexes {
			b.WriteString(fmt.Sprintf("CREATE INDEX %s ON %s (%s);\n", idx.Name, tbl.Name, strings.Join(idx.Columns, ", ")))
		}
	}
	return r.WriteText(c, "schema.sql", b.String())
}

// DumpExpected writes expected.tsv with the shadow rows of every table,
// capped at MaxDataDumpRows per table.
func (r *Reporter) DumpExpected(c Case, state *schema.State) error {
	var b strings.Builder
	for _, tbl := range sortedTables(state.Tables) {
		writeRows(&b, tbl.Name, tbl.Rows, r.MaxDataDumpRows)
	}
	return r.WriteText(c, "expected.tsv", b.String())
}

// DumpActual writes actual.tsv with the engine's rows for every table the
// shadow model knows about.
func (r *Reporter) DumpActual(ctx context.Context, c Case, exec *db.DB, state *schema.State) error {
	var b strings.Builder
	for _, tbl := range sortedTables(state.Tables) {
		types := make([]schema.ColumnType, len(tbl.Columns))
		for i, col := range tbl.Columns {
			types[i] = col.Type
		}
		rows, err := exec.Query(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", tbl.Name, max(r.MaxDataDumpRows, 1)), types)
		if err != nil {
			b.WriteString(fmt.Sprintf("-- %s: %v\n\n", tbl.Name, err))
			continue
		}
		writeRows(&b, tbl.Name, rows, r.MaxDataDumpRows)
	}
	return r.WriteText(c, "actual.tsv", b.String())
}

func writeRows(b *strings.Builder, name string, rows []schema.Row, limit int) {
	b.WriteString(fmt.Sprintf("-- %s\n", name))
	for i, row := range rows {
		if limit > 0 && i >= limit {
			b.WriteString(fmt.Sprintf("-- %d more rows\n", len(rows)-limit))
			break
		}
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.SQLLiteral()
		}
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func sortedTables(tables []*schema.Table) []*schema.Table {
	out := append([]*schema.Table(nil), tables...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
