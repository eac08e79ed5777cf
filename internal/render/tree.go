package render

import (
	"fmt"
	"io"

	"github.com/Abbiirr/simple-procmon/internal/proctree"
)

// Tree writes the forest with box-drawing connectors, roots first.
func Tree(w io.Writer, forest []*proctree.Node) {
	if len(forest) == 0 {
		fmt.Fprintln(w, dim+"no matching processes"+reset)
		return
	}
	for _, root := range forest {
		writeNode(w, root, "", true, true)
	}
}

func writeNode(w io.Writer, n *proctree.Node, prefix string, isLast, isRoot bool) {
	connector := ""
	childPrefix := prefix
	if !isRoot {
		if isLast {
			connector = prefix + "└─ "
			childPrefix = prefix + "   "
		} else {
			connector = prefix + "├─ "
			childPrefix = prefix + "│  "
		}
	}
	label := n.Name
	if n.Script != "" {
		label = n.Script
	}
	fmt.Fprintf(w, "%s%s%s%s (pid %d) %s%.1f%%%s %.1f MB\n",
		connector, bold, label, reset, n.PID, cyan, n.CPUPercent, reset, n.MemoryMB)
	for i, c := range n.Children {
		writeNode(w, c, childPrefix, i == len(n.Children)-1, false)
	}
}
