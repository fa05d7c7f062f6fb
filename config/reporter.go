package config

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/multierr"

	"mcnbt/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates initialized empty reporter.
func (conf *ReporterConfig) Prepare() (*Report, error) {

	r := &Report{entries: make(map[string]entry)}

	if f, err := os.Create(conf.Destination); err == nil {
		r.file = f
	} else if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err == nil {
		r.file = f
	} else {
		return nil, fmt.Errorf("unable to create report: %w", err)
	}
	return r, nil
}

type entry struct {
	path  string
	stamp time.Time
	data  []byte
}

// Report accumulates information necessary to prepare full debug report.
// NOTE: presently not to be used concurrently!
type Report struct {
	entries map[string]entry
	file    *os.File
}

// Name returns name of underlying file.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store saves path to a file to be put in the final archive later.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	r.entries[name] = entry{path: path, stamp: time.Now()}
}

// StoreData saves a byte blob to be put in the final archive later.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.entries[name] = entry{data: data, stamp: time.Now()}
}

// Close finalizes debug report archive.
func (r *Report) Close() (err error) {
	if r == nil || r.file == nil {
		// no report has been requested
		return nil
	}
	defer func() {
		err = multierr.Append(err, r.file.Close())
	}()

	w := zip.NewWriter(r.file)
	defer func() {
		err = multierr.Append(err, w.Close())
	}()

	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		e := r.entries[n]
		f, er := w.CreateHeader(&zip.FileHeader{Name: n, Method: zip.Deflate, Modified: e.stamp})
		if er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to create report entry '%s': %w", n, er))
			continue
		}
		if len(e.data) > 0 || len(e.path) == 0 {
			if _, er := f.Write(e.data); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to write report entry '%s': %w", n, er))
			}
			continue
		}
		src, er := os.Open(e.path)
		if er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to read report entry '%s': %w", n, er))
			continue
		}
		if _, er := io.Copy(f, src); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to copy report entry '%s': %w", n, er))
		}
		src.Close()
	}
	return err
}
