// Package codebase keeps a parsed view of the Python files in a directory
// tree and serves it to editors over the Language Server Protocol.
package codebase

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/pyfront/config"
	"github.com/dhamidi/pyfront/python/parser"
)

var log = commonlog.GetLogger("pyfront.codebase")

type Codebase struct {
	mu    sync.RWMutex
	cfg   *config.Config
	opts  []parser.Option
	files map[string]*FileInfo
}

// FileInfo is the latest parse of one file. Files opened in an editor are
// marked Open and are not reloaded from disk until they are closed.
type FileInfo struct {
	Path     string
	Content  []byte
	Tree     *parser.Tree
	Symbols  []Symbol
	Open     bool
	ParseErr error
}

func New(cfg *config.Config) *Codebase {
	return &Codebase{
		cfg:   cfg,
		opts:  cfg.ParserOptions(),
		files: make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.cfg.RootDir
}

func (c *Codebase) Config() *config.Config {
	return c.cfg
}

// ScanAll parses every Python file under the root directory.
func (c *Codebase) ScanAll() error {
	paths, err := c.cfg.PythonFiles(c.cfg.RootDir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := c.ScanFile(path); err != nil {
			log.Warningf("scan %s: %s", path, err)
		}
	}
	log.Infof("scanned %d files under %s", len(paths), c.cfg.RootDir)
	return nil
}

// ScanFile reads path from disk and parses it, unless it is open in an
// editor.
func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if f := c.files[path]; f != nil && f.Open {
		return nil
	}
	_, err = c.updateFileLocked(path, content, nil, false)
	return err
}

// UpdateFile replaces the content of path and parses it from scratch.
func (c *Codebase) UpdateFile(path string, content []byte) (*FileInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	open := c.files[path] != nil && c.files[path].Open
	return c.updateFileLocked(path, content, nil, open)
}

// OpenFile marks path as owned by an editor and parses content.
func (c *Codebase) OpenFile(path string, content []byte) (*FileInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateFileLocked(path, content, nil, true)
}

// CloseFile hands path back to the disk scanner.
func (c *Codebase) CloseFile(path string) {
	c.mu.Lock()
	if f := c.files[path]; f != nil {
		f.Open = false
	}
	c.mu.Unlock()
	if err := c.ScanFile(path); err != nil {
		c.RemoveFile(path)
	}
}

// EditFile applies an edited version of path, reparsing incrementally
// from the previous tree. edits describe how content differs from the
// previous content, in order.
func (c *Codebase) EditFile(path string, content []byte, edits []parser.Edit) (*FileInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	open := c.files[path] != nil && c.files[path].Open
	return c.updateFileLocked(path, content, edits, open)
}

func (c *Codebase) updateFileLocked(path string, content []byte, edits []parser.Edit, open bool) (*FileInfo, error) {
	ctx := context.Background()
	var tree *parser.Tree
	var err error
	if prev := c.files[path]; prev != nil && prev.Tree != nil && len(edits) > 0 {
		tree, err = parser.Reparse(ctx, prev.Tree, content, edits, c.opts...)
	} else {
		tree, err = parser.Parse(ctx, content, c.opts...)
	}

	f := &FileInfo{Path: path, Content: content, Tree: tree, Open: open, ParseErr: err}
	if err != nil {
		log.Warningf("parse %s: %s", path, err)
		f.ParseErr = fmt.Errorf("parse %s: %w", path, err)
	} else {
		f.Symbols = Outline(tree)
		log.Debugf("parsed %s: %d diagnostics", path, len(tree.Diagnostics()))
	}
	c.files[path] = f
	return f, f.ParseErr
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths lists the known files in order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// FindSymbol returns every top-level or nested symbol named name, across
// all files.
func (c *Codebase) FindSymbol(name string) []Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Location
	for _, f := range c.files {
		var visit func(syms []Symbol)
		visit = func(syms []Symbol) {
			for _, s := range syms {
				if s.Name == name {
					out = append(out, Location{Path: f.Path, Symbol: s})
				}
				visit(s.Children)
			}
		}
		visit(f.Symbols)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Symbol.Span.Start < out[j].Symbol.Span.Start
	})
	return out
}

// Location is a symbol in a file.
type Location struct {
	Path   string
	Symbol Symbol
}
