package compile

import "strings"

// RenderTree produces the ASCII representation of a directory tree using
// box-drawing connectors. Pruned and inaccessible directories are annotated
// instead of being silently dropped.
func RenderTree(root *TreeNode) string {
	var b strings.Builder
	b.WriteString(root.Name)
	b.WriteString("/\n")
	renderChildren(&b, root, "")
	return b.String()
}

func renderChildren(b *strings.Builder, node *TreeNode, prefix string) {
	for i, child := range node.Children {
		connector := "├── "
		extension := "│   "
		if i == len(node.Children)-1 {
			connector = "└── "
			extension = "    "
		}

		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(child.Name)
		if child.IsDir {
			b.WriteString("/")
			switch {
			case child.Pruned:
				b.WriteString(" [excluded]")
			case child.Inaccessible:
				b.WriteString(" [inaccessible]")
			}
		}
		b.WriteString("\n")

		if child.IsDir && !child.Pruned {
			renderChildren(b, child, prefix+extension)
		}
	}
}
