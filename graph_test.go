package crush

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphAddNodeTracksMaxDepth(t *testing.T) {
	g := newGraph()
	root := g.addNode(-1, "abc", 0, 0, 0)
	child := g.addNode(root, "a1", 1, 3, 0.5)
	assert.Equal(t, 0, root)
	assert.Equal(t, 1, child)
	assert.Equal(t, 1, g.MaxDepth)
}

func TestGraphAddEdgeRecordsFields(t *testing.T) {
	g := newGraph()
	from := g.addNode(-1, "abc", 0, 0, 0)
	to := g.addNode(from, "a1", 1, 3, 0.5)
	g.addEdge(from, to, "bc", "1", 3)
	assert.Len(t, g.Edges, 1)
	assert.Equal(t, "bc", g.Edges[0].Pattern)
	assert.Equal(t, 3, g.Edges[0].ImmediateGain)
}

func TestGraphSetBestPathFollowsParents(t *testing.T) {
	g := newGraph()
	root := g.addNode(-1, "abc", 0, 0, 0)
	mid := g.addNode(root, "a1", 1, 3, 0.5)
	leaf := g.addNode(mid, "12", 2, 6, 0.9)
	g.setBestPath(leaf)
	assert.Equal(t, []int{root, mid, leaf}, g.BestPath)
}

func TestGraphConcurrentWritesAreSafe(t *testing.T) {
	g := newGraph()
	root := g.addNode(-1, "abc", 0, 0, 0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := g.addNode(root, "x", 1, 1, 0)
			g.addEdge(root, id, "x", "1", 1)
		}()
	}
	wg.Wait()
	assert.Len(t, g.Nodes, 51)
	assert.Len(t, g.Edges, 50)
}
