package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// FileNames holds the file name of each raw source, relative to the source directory.
type FileNames struct {
	Orders    string
	Items     string
	Products  string
	Customers string
}

// FileSource reads the raw datasets from delimited files or XLSX workbooks.
type FileSource struct {
	dir   string
	files FileNames
	comma rune
}

func NewFileSource(dir string, files FileNames, comma rune) *FileSource {
	if comma == 0 {
		comma = ','
	}
	return &FileSource{dir: dir, files: files, comma: comma}
}

func (s *FileSource) Name() string {
	return "file:" + s.dir
}

// Load reads the four files concurrently. Every broken source is reported in
// the returned error, not just the first one.
func (s *FileSource) Load(ctx context.Context) (Tables, error) {
	var (
		tables Tables
		errs   = make([]error, 4)
		g      errgroup.Group
	)

	g.Go(func() error {
		t, err := s.read(ctx, SourceOrders, s.files.Orders)
		if err == nil {
			tables.Orders, err = decodeOrders(t)
		}
		errs[0] = err
		return nil
	})
	g.Go(func() error {
		t, err := s.read(ctx, SourceItems, s.files.Items)
		if err == nil {
			tables.Items, err = decodeItems(t)
		}
		errs[1] = err
		return nil
	})
	g.Go(func() error {
		t, err := s.read(ctx, SourceProducts, s.files.Products)
		if err == nil {
			tables.Products, err = decodeProducts(t)
		}
		errs[2] = err
		return nil
	})
	g.Go(func() error {
		t, err := s.read(ctx, SourceCustomers, s.files.Customers)
		if err == nil {
			tables.Customers, err = decodeCustomers(t)
		}
		errs[3] = err
		return nil
	})
	_ = g.Wait()

	if err := multierr.Combine(errs...); err != nil {
		return Tables{}, err
	}
	return tables, nil
}

func (s *FileSource) read(ctx context.Context, source, name string) (*rawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, configError(source, "no file configured", nil)
	}
	path := filepath.Join(s.dir, name)
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, configError(source, fmt.Sprintf("file %s not found", path), map[string]any{"path": path})
		}
		return nil, configError(source, fmt.Sprintf("reading %s: %v", path, err), map[string]any{"path": path})
	}
	return parseTable(source, name, payload, s.comma)
}
