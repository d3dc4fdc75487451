package crush

import "sync"

// Graph records a search strategy's exploration for post-hoc inspection,
// per spec.md §3 ("Search graph") and §6 (PackerData.searchGraph). Nodes
// and edges are append-only and may be written concurrently by parallel
// beam expansion (beam.go), so mutations go through a mutex.
type Graph struct {
	mu       sync.Mutex
	Nodes    []Node
	Edges    []Edge
	MaxDepth int
	BestPath []int // node ids from root to the best terminal, in order
}

// Node is one explored search state.
type Node struct {
	ID            int
	ParentID      int // -1 for the root
	Text          string
	Depth         int
	CumulativeGain int
	PredictedScore float64
}

// Edge records the pattern applied between a parent and child node.
type Edge struct {
	FromID    int
	ToID      int
	Pattern   string
	Token     string
	ImmediateGain int
}

func newGraph() *Graph {
	return &Graph{}
}

// addNode appends a node and returns its id.
func (g *Graph) addNode(parentID int, text string, depth, cumGain int, predicted float64) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{
		ID: id, ParentID: parentID, Text: text, Depth: depth,
		CumulativeGain: cumGain, PredictedScore: predicted,
	})
	if depth > g.MaxDepth {
		g.MaxDepth = depth
	}
	return id
}

// addEdge appends an edge between two already-added nodes.
func (g *Graph) addEdge(from, to int, patternText, token string, gain int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Edges = append(g.Edges, Edge{FromID: from, ToID: to, Pattern: patternText, Token: token, ImmediateGain: gain})
}

// setBestPath reconstructs and stores the root-to-terminal path ending at
// terminalID by following ParentID links.
func (g *Graph) setBestPath(terminalID int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var path []int
	id := terminalID
	for id != -1 {
		path = append([]int{id}, path...)
		id = g.Nodes[id].ParentID
	}
	g.BestPath = path
}
