package scene

import (
	"bytes"
	"fmt"
	"math"

	"github.com/olekukonko/tablewriter"
)

// Size in bytes of the serialized header, node table entries and index table entries.
const (
	HeaderSize     = 12
	NodeRecordSize = 6*4 + 1 + 2*4
	IndexEntrySize = 4
)

// Structural statistics for a BVH tree.
type TreeStats struct {
	Nodes     int
	Leafs     int
	Internal  int
	MaxDepth  int
	Triangles int

	MinLeafTriangles int
	MaxLeafTriangles int
	AvgLeafTriangles float64
}

// Collect tree statistics.
func (t *Tree) Summary() (TreeStats, error) {
	st := TreeStats{MinLeafTriangles: math.MaxInt32}
	err := t.Walk(func(_ uint32, node *BvhNode, depth int) error {
		st.Nodes++
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		if !node.Leaf {
			st.Internal++
			return nil
		}

		_, count := node.GetPrimitives()
		st.Leafs++
		st.Triangles += int(count)
		if int(count) < st.MinLeafTriangles {
			st.MinLeafTriangles = int(count)
		}
		if int(count) > st.MaxLeafTriangles {
			st.MaxLeafTriangles = int(count)
		}
		return nil
	})
	if err != nil {
		return TreeStats{}, err
	}

	st.AvgLeafTriangles = float64(st.Triangles) / float64(st.Leafs)
	return st, nil
}

// Build a tabular representation of tree statistics.
func (t *Tree) Stats() (string, error) {
	st, err := t.Summary()
	if err != nil {
		return "", err
	}

	nodeBytes := len(t.Nodes) * NodeRecordSize
	indexBytes := len(t.Indices) * IndexEntrySize

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Section", "Item", "Value"})
	table.Append([]string{"Nodes", "---", fmtSize(nodeBytes)})
	table.Append([]string{"", "Total", fmt.Sprint(st.Nodes)})
	table.Append([]string{"", "Internal", fmt.Sprint(st.Internal)})
	table.Append([]string{"", "Leafs", fmt.Sprint(st.Leafs)})
	table.Append([]string{"", "Max depth", fmt.Sprint(st.MaxDepth)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Triangles", "---", fmtSize(indexBytes)})
	table.Append([]string{"", "Indexed", fmt.Sprint(st.Triangles)})
	table.Append([]string{"", "Min per leaf", fmt.Sprint(st.MinLeafTriangles)})
	table.Append([]string{"", "Max per leaf", fmt.Sprint(st.MaxLeafTriangles)})
	table.Append([]string{"", "Avg per leaf", fmt.Sprintf("%.2f", st.AvgLeafTriangles)})
	table.SetFooter([]string{"Total", " ", fmtSize(HeaderSize + nodeBytes + indexBytes)})

	table.Render()
	return buf.String(), nil
}

// Format a byte count with the appropriate byte/kb/mb unit.
func fmtSize(totalBytes int) string {
	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", totalBytes)
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", float64(totalBytes)/1e3)
	}
	return fmt.Sprintf("%5.1f mb", float64(totalBytes)/1e6)
}
