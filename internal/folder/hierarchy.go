package folder

import (
	"fmt"
	"sort"
	"strings"
)

// MaxDepth caps the displayed hierarchy. Nodes deeper than this are
// re-projected onto the first flattenSegments path segments while keeping
// their original path for display and audit.
const (
	MaxDepth        = 3
	flattenSegments = 3
)

// Node is one folder of the hierarchy. ParentPath is empty for roots.
// OriginalPath is only set when flattening re-projected the node.
type Node struct {
	Name         string
	Path         string
	ParentPath   string
	Depth        int
	OriginalPath string
	AssetCount   int
}

// Build turns unique folder paths with per-folder asset counts into a
// parent-linked node list, parents always before children (ascending
// depth). Missing intermediate ancestors are synthesized with a zero
// asset count so every non-root node has an existing parent.
func Build(counts map[string]int) []*Node {
	paths := make(map[string]struct{})
	for p := range counts {
		for _, ancestor := range ancestors(p) {
			paths[ancestor] = struct{}{}
		}
		paths[p] = struct{}{}
	}

	nodes := make([]*Node, 0, len(paths))
	for p := range paths {
		segs := strings.Split(p, "/")
		nodes = append(nodes, &Node{
			Name:       segs[len(segs)-1],
			Path:       p,
			ParentPath: parentOf(p),
			Depth:      len(segs) - 1,
			AssetCount: counts[p],
		})
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Depth != nodes[j].Depth {
			return nodes[i].Depth < nodes[j].Depth
		}
		return nodes[i].Path < nodes[j].Path
	})
	return nodes
}

// Flatten re-projects any node deeper than MaxDepth onto its first
// flattenSegments path segments, merging its asset count into the node
// already at the truncated path. Provenance is never discarded: the
// original full path stays on the merged node's OriginalPath.
func Flatten(nodes []*Node) []*Node {
	byPath := make(map[string]*Node)
	var out []*Node

	for _, n := range nodes {
		if n.Depth <= MaxDepth {
			cp := *n
			byPath[cp.Path] = &cp
			out = append(out, &cp)
			continue
		}

		segs := strings.Split(n.Path, "/")
		truncated := strings.Join(segs[:flattenSegments], "/")

		if existing, ok := byPath[truncated]; ok {
			existing.AssetCount += n.AssetCount
			if existing.OriginalPath == "" {
				existing.OriginalPath = n.Path
			}
			continue
		}

		projected := &Node{
			Name:         segs[flattenSegments-1],
			Path:         truncated,
			ParentPath:   parentOf(truncated),
			Depth:        flattenSegments - 1,
			OriginalPath: n.Path,
			AssetCount:   n.AssetCount,
		}
		byPath[truncated] = projected
		out = append(out, projected)
	}

	return out
}

// Validate checks structural integrity: no duplicate full paths, depth
// matching segment count, and every non-root parent present among the
// nodes (parents are inserted before children, by ascending depth).
func Validate(nodes []*Node) error {
	seen := make(map[string]struct{}, len(nodes))
	for i, n := range nodes {
		if _, dup := seen[n.Path]; dup {
			return fmt.Errorf("duplicate folder path %q", n.Path)
		}
		if want := len(strings.Split(n.Path, "/")) - 1; n.Depth != want {
			return fmt.Errorf("folder %q has depth %d, expected %d", n.Path, n.Depth, want)
		}
		if n.ParentPath != "" {
			if _, ok := seen[n.ParentPath]; !ok {
				return fmt.Errorf("folder %q at position %d references missing parent %q", n.Path, i, n.ParentPath)
			}
		}
		seen[n.Path] = struct{}{}
	}
	return nil
}

// TotalAssets sums asset counts over all nodes.
func TotalAssets(nodes []*Node) int {
	total := 0
	for _, n := range nodes {
		total += n.AssetCount
	}
	return total
}

func parentOf(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return ""
}

func ancestors(p string) []string {
	var out []string
	for {
		p = parentOf(p)
		if p == "" {
			return out
		}
		out = append(out, p)
	}
}
