package ianadist

import (
	"bytes"
	"fmt"
	"path"

	"github.com/spf13/afero"

	"github.com/ngrash/tzjson/tzdata"
)

// DefaultFiles are the region files holding the world's zones. backward,
// etcetera and the other auxiliary files are left out.
var DefaultFiles = []string{
	"africa",
	"antarctica",
	"asia",
	"australasia",
	"europe",
	"northamerica",
	"southamerica",
}

// Parse parses the named region files of r, in the order given. All files are
// parsed if names is empty. opts apply to every file; each file is named in its
// parse errors.
func (r *Release) Parse(names []string, opts ...tzdata.Option) ([]tzdata.File, error) {
	if len(names) == 0 {
		names = r.DataFiles.Names()
	}
	files := make([]tzdata.File, 0, len(names))
	for _, name := range names {
		data, ok := r.DataFiles[name]
		if !ok {
			return nil, fmt.Errorf("release %s has no data file %q", r.Version, name)
		}
		f, err := tzdata.Parse(bytes.NewReader(data), append([]tzdata.Option{tzdata.WithSource(name)}, opts...)...)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// LoadDir parses the named files of dir, in the order given.
func LoadDir(fs afero.Fs, dir string, names []string, opts ...tzdata.Option) ([]tzdata.File, error) {
	files := make([]tzdata.File, 0, len(names))
	for _, name := range names {
		f, err := tzdata.ParseFile(fs, path.Join(dir, name), opts...)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
