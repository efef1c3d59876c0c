// Package discover walks an SDAX project directory and classifies the
// fragment files the extraction pipeline consumes. The expected layout is
// worklib/<block>/tbl_1/ for per-block fragments and a project-level cache/
// directory for symbol graphics and styles.
package discover

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/OpenTraceLab/OpenTraceSDAX/pkg/sdax/design"
)

// Class identifies which reader a discovered fragment file belongs to.
type Class string

const (
	// ClassNames is a *dx.json file carrying refdes and cpath rows.
	ClassNames Class = "names"
	// ClassParts is a non-dx .json file carrying part-definition cells.
	ClassParts Class = "parts"
	// ClassXcon is a .xcon connectivity file.
	ClassXcon Class = "xcon"
	// ClassPage is a page_file_N.ascii geometry file.
	ClassPage Class = "page"
	// ClassInstIndex is an instindex.ascii instance-to-graphics index.
	ClassInstIndex Class = "instindex"
)

// IgnoreFileName is the optional per-project ignore file, gitignore syntax,
// matched against paths relative to the project root.
const IgnoreFileName = ".sdaxignore"

// ignoreDirs are block-directory names that never contain schematic data.
var ignoreDirs = map[string]bool{
	"cache":           true,
	"Configurations2": true,
	"Thumbnails":      true,
	"META-INF":        true,
	".DS_Store":       true,
}

// File is one classified fragment file.
type File struct {
	Path  string
	Block design.BlockName
	Class Class
}

// Project is the result of scanning one SDAX project directory.
type Project struct {
	Root     string
	CacheDir string
	Blocks   []design.BlockName
	Files    []File
}

// ByClass returns the discovered files of one class, in scan order.
func (p *Project) ByClass(c Class) []File {
	var out []File
	for _, f := range p.Files {
		if f.Class == c {
			out = append(out, f)
		}
	}
	return out
}

// BlockDir returns the tbl_1 fragment directory for a block.
func (p *Project) BlockDir(block design.BlockName) string {
	return filepath.Join(p.Root, "worklib", string(block), "tbl_1")
}

// PageFile returns the path of one of a block's page geometry files,
// whether or not it exists.
func (p *Project) PageFile(block design.BlockName, index int) string {
	return filepath.Join(p.BlockDir(block), fmt.Sprintf("page_file_%d.ascii", index))
}

// Scan walks root's worklib directory and classifies every fragment file.
// Blocks in the fixed ignore set are skipped, as is anything matched by a
// .sdaxignore file at the project root.
func Scan(root string, log *slog.Logger) (*Project, error) {
	if log == nil {
		log = slog.Default()
	}

	worklib := filepath.Join(root, "worklib")
	if _, err := os.Stat(worklib); err != nil {
		return nil, fmt.Errorf("worklib directory not found at %s: %w", worklib, err)
	}

	matcher := loadIgnoreFile(filepath.Join(root, IgnoreFileName), log)

	proj := &Project{Root: root, CacheDir: filepath.Join(root, "cache")}

	entries, err := os.ReadDir(worklib)
	if err != nil {
		return nil, fmt.Errorf("failed to read worklib directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() || ignoreDirs[entry.Name()] {
			continue
		}
		block := design.BlockName(entry.Name())
		tblDir := filepath.Join(worklib, entry.Name(), "tbl_1")
		if ignored(matcher, root, tblDir) {
			log.Debug("block ignored by .sdaxignore", "block", block)
			continue
		}

		files, err := os.ReadDir(tblDir)
		if err != nil {
			// A block directory without tbl_1 holds no schematic tables.
			continue
		}
		proj.Blocks = append(proj.Blocks, block)

		for _, f := range files {
			if f.IsDir() {
				continue
			}
			path := filepath.Join(tblDir, f.Name())
			if ignored(matcher, root, path) {
				log.Debug("file ignored by .sdaxignore", "path", path)
				continue
			}
			class, ok := Classify(f.Name())
			if !ok {
				continue
			}
			proj.Files = append(proj.Files, File{Path: path, Block: block, Class: class})
		}
	}

	sort.Slice(proj.Blocks, func(i, j int) bool { return proj.Blocks[i] < proj.Blocks[j] })

	log.Info("project scan complete",
		"blocks", len(proj.Blocks),
		"names_files", len(proj.ByClass(ClassNames)),
		"parts_files", len(proj.ByClass(ClassParts)),
		"xcon_files", len(proj.ByClass(ClassXcon)),
		"page_files", len(proj.ByClass(ClassPage)))
	return proj, nil
}

// Classify maps a fragment file name to its reader class. Files that no
// reader consumes report ok=false.
func Classify(name string) (Class, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "dx.json"):
		return ClassNames, true
	case strings.HasSuffix(lower, ".json"):
		return ClassParts, true
	case strings.HasSuffix(lower, ".xcon"):
		return ClassXcon, true
	case lower == "instindex.ascii":
		return ClassInstIndex, true
	case strings.HasPrefix(lower, "page_file_") && strings.HasSuffix(lower, ".ascii"):
		return ClassPage, true
	}
	return "", false
}

func loadIgnoreFile(path string, log *slog.Logger) *ignore.GitIgnore {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	matcher, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		log.Warn("failed to parse ignore file", "path", path, "error", err)
		return nil
	}
	log.Debug("loaded ignore file", "path", path)
	return matcher
}

func ignored(matcher *ignore.GitIgnore, root, path string) bool {
	if matcher == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return matcher.MatchesPath(filepath.ToSlash(rel))
}
