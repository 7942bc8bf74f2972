// Command tzdiff compares two directories of documents written by tzjson.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/ngrash/tzjson/tzjson"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) != 3 {
		return fmt.Errorf("Usage: tzdiff <directory A> <directory B>")
	}
	diffs, err := diffTrees(afero.NewOsFs(), os.Args[1], os.Args[2])
	if err != nil {
		return err
	}
	if len(diffs) == 0 {
		fmt.Println("trees are identical")
		return nil
	}
	fmt.Println("trees are different: -A +B")
	for _, d := range diffs {
		fmt.Println(d)
	}
	return nil
}

// diffTrees compares the documents below dirs a and b and describes every difference.
func diffTrees(fsys afero.Fs, a, b string) ([]string, error) {
	as, err := documents(fsys, a)
	if err != nil {
		return nil, err
	}
	bs, err := documents(fsys, b)
	if err != nil {
		return nil, err
	}

	var diffs []string
	for _, rel := range as {
		if !slices.Contains(bs, rel) {
			diffs = append(diffs, "only in A: "+rel)
			continue
		}
		diff, err := diffDocument(fsys, filepath.Join(a, rel), filepath.Join(b, rel), isRules(rel))
		if err != nil {
			return nil, err
		}
		if diff != "" {
			diffs = append(diffs, rel+":\n"+diff)
		}
	}
	for _, rel := range bs {
		if !slices.Contains(as, rel) {
			diffs = append(diffs, "only in B: "+rel)
		}
	}
	return diffs, nil
}

// documents lists the documents below dir relative to it, in lexical order.
func documents(fsys afero.Fs, dir string) ([]string, error) {
	var out []string
	err := afero.Walk(fsys, dir, func(p string, info fs.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		switch filepath.Ext(p) {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		out = append(out, rel)
		return nil
	})
	slices.Sort(out)
	return out, err
}

func isRules(rel string) bool {
	return strings.HasPrefix(filepath.ToSlash(rel), tzjson.RulesDir+"/")
}

func diffDocument(fsys afero.Fs, a, b string, rules bool) (string, error) {
	if rules {
		ad, err := tzjson.ReadRules(fsys, a)
		if err != nil {
			return "", err
		}
		bd, err := tzjson.ReadRules(fsys, b)
		if err != nil {
			return "", err
		}
		return cmp.Diff(ad, bd), nil
	}
	ad, err := tzjson.ReadZone(fsys, a)
	if err != nil {
		return "", err
	}
	bd, err := tzjson.ReadZone(fsys, b)
	if err != nil {
		return "", err
	}
	return cmp.Diff(ad, bd), nil
}
