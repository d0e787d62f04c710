package cmd

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/ezerfernandes/blockfmt/internal/scan"
	"github.com/gobwas/glob"
)

const stdinArg = "-"

// sourcesOf resolves command arguments into sources. No arguments, or a single
// "-", means standard input. Files are taken as given; directories are walked
// for files whose base name matches an include pattern.
func sourcesOf(args, include, exclude []string) ([]scan.Source, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == stdinArg) {
		return []scan.Source{{}}, nil
	}

	includes, err := compileGlobs(include)
	if err != nil {
		return nil, err
	}

	excludes, err := compileGlobs(exclude)
	if err != nil {
		return nil, err
	}

	var sources []scan.Source

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			sources = append(sources, scan.Source{Path: arg})

			continue
		}

		files, err := walkDir(os.DirFS(arg), includes, excludes)
		if err != nil {
			return nil, err
		}

		for _, file := range files {
			sources = append(sources, scan.Source{Path: filepath.Join(arg, filepath.FromSlash(file))})
		}
	}

	return sources, nil
}

// walkDir lists the matching regular files of fsys, sorted by path.
func walkDir(fsys fs.FS, include, exclude []glob.Glob) ([]string, error) {
	var files []string

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := path.Base(name)

		if entry.IsDir() {
			if name != "." && matchAny(exclude, base) {
				return fs.SkipDir
			}

			return nil
		}

		if entry.Type().IsRegular() && matchAny(include, base) {
			files = append(files, name)
		}

		return nil
	})

	sort.Strings(files)

	return files, err
}
