package engine

import "pivotreport/internal/models"

type columnPath struct {
	key    string
	labels []string
}

type labelGroup struct {
	label string
	paths []columnPath
}

// BuildHierarchy turns sorted composite column keys into the header forest.
// Siblings keep the order in which their label first appears in keys. All
// keys are expected to have as many segments as the first one.
func BuildHierarchy(keys []string) []*models.ColumnNode {
	if len(keys) == 0 {
		return []*models.ColumnNode{}
	}

	paths := make([]columnPath, len(keys))
	for i, k := range keys {
		paths[i] = columnPath{key: k, labels: models.SplitColumnKey(k)}
	}
	return buildLevel(paths, 0, len(paths[0].labels))
}

func buildLevel(paths []columnPath, depth, maxDepth int) []*models.ColumnNode {
	if depth >= maxDepth {
		return nil
	}

	// Stable partition by the label at depth.
	var groups []*labelGroup
	index := make(map[string]*labelGroup)
	for _, p := range paths {
		label := p.labels[depth]
		g, ok := index[label]
		if !ok {
			g = &labelGroup{label: label}
			index[label] = g
			groups = append(groups, g)
		}
		g.paths = append(g.paths, p)
	}

	nodes := make([]*models.ColumnNode, 0, len(groups))
	for _, g := range groups {
		children := buildLevel(g.paths, depth+1, maxDepth)
		nodes = append(nodes, &models.ColumnNode{
			Label:    g.label,
			Span:     len(g.paths),
			Depth:    depth,
			Children: children,
			IsLeaf:   children == nil,
		})
	}
	return nodes
}

// MaxDepth is the number of header rows the forest needs.
func MaxDepth(forest []*models.ColumnNode) int {
	if len(forest) == 0 {
		return 0
	}
	depth := 1
	for _, n := range forest {
		if n.Children != nil {
			depth = max(depth, 1+MaxDepth(n.Children))
		}
	}
	return depth
}
