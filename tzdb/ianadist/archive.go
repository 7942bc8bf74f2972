package ianadist

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"maps"
	"path"
	"slices"

	"github.com/spf13/afero"
)

const (
	// dataFileMagicHeader starts every region file of a release.
	dataFileMagicHeader = "# tzdb data for"
	versionFilename     = "version"
)

// DataFiles maps region file names to their contents, e.g. "europe" to
// "# tzdb data for Europe and environs\n...". Every value starts with the
// "# tzdb data for" header.
type DataFiles map[string][]byte

// Names returns the file names in lexical order.
func (d DataFiles) Names() []string {
	return slices.Sorted(maps.Keys(d))
}

// Release is an unpacked tzdb release.
type Release struct {
	Version   string // e.g. "2024b"
	DataFiles DataFiles
}

// ReadArchive unpacks a gzip-compressed tar archive in the layout of
// https://data.iana.org/time-zones/releases/. Only region files and the version
// are kept.
func ReadArchive(r io.Reader) (*Release, error) {
	gunzip, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("read gzip: %w", err)
	}
	tr := tar.NewReader(gunzip)

	release := Release{DataFiles: make(DataFiles)}
	magic := []byte(dataFileMagicHeader)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		if header.Name == versionFilename {
			v, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("read version file: %w", err)
			}
			if v = bytes.TrimSpace(v); len(v) == 0 {
				return nil, errors.New("empty version file")
			}
			release.Version = string(v)
			continue
		}
		if header.Size < int64(len(magic)) {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", header.Name, err)
		}
		if !bytes.HasPrefix(data, magic) {
			continue
		}
		release.DataFiles[header.Name] = data
	}

	if len(release.DataFiles) == 0 {
		return nil, errors.New("no data files found")
	}
	if release.Version == "" {
		return nil, errors.New("no version found")
	}
	return &release, nil
}

// ReadArchiveFile unpacks the archive stored at name in fs.
func ReadArchiveFile(fs afero.Fs, name string) (*Release, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := ReadArchive(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return r, nil
}

// WriteDir stores the region files and the version file of r in dir, creating
// dir if needed. The result can be read back with LoadDir.
func (r *Release) WriteDir(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range r.DataFiles.Names() {
		if err := afero.WriteFile(fs, path.Join(dir, name), r.DataFiles[name], 0o644); err != nil {
			return err
		}
	}
	return afero.WriteFile(fs, path.Join(dir, versionFilename), []byte(r.Version+"\n"), 0o644)
}
