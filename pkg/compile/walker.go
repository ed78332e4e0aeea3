package compile

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// WalkResult is the outcome of one deterministic traversal: the ordered list
// of candidate files and the directory tree for rendering.
type WalkResult struct {
	Files        []string // Relative slash-separated paths in traversal order.
	Tree         *TreeNode
	Inaccessible []string // Directories whose listing was denied.
}

// WalkTree performs a depth-first traversal of root, visiting entries in
// lexicographic name order so repeated runs produce identical output.
// Directories are pruned when the matcher says so; pruned and unreadable
// directories stay visible in the tree but are never descended into.
// Symbolic links are not followed.
func WalkTree(root string, matcher *PathMatcher, logger *zap.Logger) (*WalkResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", root, err)
	}

	result := &WalkResult{
		Tree: &TreeNode{Name: filepath.Base(absRoot), IsDir: true},
	}
	if err := walkDir(absRoot, "", result.Tree, matcher, result, logger); err != nil {
		return nil, err
	}
	return result, nil
}

// walkDir fills node with the entries of one directory and recurses into
// subdirectories. relDir is slash-separated and empty for the root.
func walkDir(absDir, relDir string, node *TreeNode, matcher *PathMatcher, result *WalkResult, logger *zap.Logger) error {
	entries, err := os.ReadDir(absDir)
	if err != nil {
		accessErr := &AccessError{Path: absDir, Err: err}
		logger.Warn("Directory listing denied, skipping subtree",
			zap.String("directory", absDir),
			zap.Error(accessErr))
		node.Inaccessible = true
		result.Inaccessible = append(result.Inaccessible, relDir)
		return nil
	}

	// os.ReadDir already sorts by name; keep the sort explicit so the
	// ordering contract does not hinge on that implementation detail.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		relPath := entry.Name()
		if relDir != "" {
			relPath = path.Join(relDir, entry.Name())
		}

		if entry.Type()&os.ModeSymlink != 0 {
			logger.Debug("Skipping symbolic link", zap.String("path", relPath))
			continue
		}

		if entry.IsDir() {
			child := &TreeNode{Name: entry.Name(), IsDir: true}
			if matcher.ShouldPrune(relPath) {
				child.Pruned = true
				node.Children = append(node.Children, child)
				logger.Debug("Pruned directory", zap.String("path", relPath))
				continue
			}
			node.Children = append(node.Children, child)
			if err := walkDir(filepath.Join(absDir, entry.Name()), relPath, child, matcher, result, logger); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		// Ignore-pattern hits disappear from the tree as well; files
		// filtered only by extension or glob rules stay visible.
		if matcher.Ignored(relPath) {
			continue
		}
		node.Children = append(node.Children, &TreeNode{Name: entry.Name()})

		if matcher.Matches(relPath, false) {
			result.Files = append(result.Files, relPath)
		}
	}
	return nil
}
