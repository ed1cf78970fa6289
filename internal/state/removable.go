package state

// This file holds the One-Hive checks: whether the pieces on the board form a single
// connected group, and which pieces can leave their position without splitting it.
//
// All traversals are iterative, with an explicit stack, so large hives can't blow the
// goroutine stack.

import (
	"github.com/janpfeifer/hiveboard/internal/generics"
)

// countReachable returns the number of occupied positions reachable from start, walking
// only through occupied positions and never entering the skip positions.
func (b *Board) countReachable(start Pos, skip ...Pos) int {
	visited := generics.MakeSet[Pos](len(b.board))
	visited.Insert(skip...)
	visited.Insert(start)
	toVisit := make([]Pos, 0, len(b.board))
	toVisit = append(toVisit, start)
	count := 0
	for len(toVisit) > 0 {
		pos := toVisit[len(toVisit)-1]
		toVisit = toVisit[:len(toVisit)-1]
		count++
		for neighbour := range b.OccupiedNeighboursIter(pos) {
			if visited.Has(neighbour) {
				continue
			}
			visited.Insert(neighbour)
			toVisit = append(toVisit, neighbour)
		}
	}
	return count
}

// IsOneHive returns whether all occupied positions form one connected group.
// Empty boards and boards with one position are trivially connected.
func (b *Board) IsOneHive() bool {
	for start := range b.board {
		return b.countReachable(start) == len(b.board)
	}
	return true
}

// StaysConnectedWithout returns whether the hive stays connected after the top piece at pos is
// lifted. If there are other pieces under it, the position stays occupied and the answer is
// always true.
//
// It runs in time proportional to the number of occupied positions.
func (b *Board) StaysConnectedWithout(pos Pos) bool {
	stack, found := b.board[pos]
	if !found {
		return b.IsOneHive()
	}
	if stack.Height() > 1 || len(b.board) <= 2 {
		return true
	}
	for neighbour := range b.OccupiedNeighboursIter(pos) {
		// Any neighbour will do: all the others must be reachable from it.
		return b.countReachable(neighbour, pos) == len(b.board)-1
	}
	// An isolated piece: the hive was already broken.
	return false
}

// ConnectedAfterMove returns whether the top piece at src arriving at dst keeps touching the
// hive, assuming it could leave src (see StaysConnectedWithout).
func (b *Board) ConnectedAfterMove(src, dst Pos) bool {
	return b.liftedView(src).touchesHive(dst)
}

// findArticulationPointsState stores the information of the graph used by the method FindArticulationPoints.
// Nodes are indices into the slice of occupied positions.
type findArticulationPointsState struct {
	numVertices    int
	isArticulation []bool
	allEdgesTarget []int
	edgesPerNode   [][2]int // Shaped [node, 2], it holds the start and end indices into allEdgesTarget for each node.
	tIn, tLow      []int
}

// RemovablePositions returns the set of positions whose top piece can be lifted without breaking
// the hive, all in one O(N+E) pass. Positions with stacked pieces are always removable.
//
// It uses the popular linear algorithm to find the articulation points in a graph.
//
// Root is optional, and if given, it will start the DFS from the root.
func (b *Board) RemovablePositions(rootPos ...Pos) generics.Set[Pos] {
	numPositions := len(b.board)
	if numPositions <= 2 {
		// Taking away one of two pieces (or the only piece) can't split anything.
		return generics.SetFrom(b.OccupiedPositionsIter())
	}
	ap := &findArticulationPointsState{
		numVertices:    numPositions,
		allEdgesTarget: make([]int, 0, NumNeighbors*numPositions),
		edgesPerNode:   make([][2]int, numPositions),
	}

	// Enumerate positions and create a reverse map.
	positions := b.OccupiedPositions()
	posToNodeIdx := make(map[Pos]int, len(positions))
	for nodeIdx, pos := range positions {
		posToNodeIdx[pos] = nodeIdx
	}
	var root int // Default to 0
	if len(rootPos) > 0 {
		if nodeIdx, found := posToNodeIdx[rootPos[0]]; found {
			root = nodeIdx
		}
	}

	// Build edges.
	for nodeIdx, pos := range positions {
		ap.edgesPerNode[nodeIdx][0] = len(ap.allEdgesTarget)
		for neighbour := range b.OccupiedNeighboursIter(pos) {
			ap.allEdgesTarget = append(ap.allEdgesTarget, posToNodeIdx[neighbour])
		}
		ap.edgesPerNode[nodeIdx][1] = len(ap.allEdgesTarget)
	}

	ap.FindArticulationPoints(root)

	removable := generics.MakeSet[Pos](numPositions)
	for nodeIdx, isArticulation := range ap.isArticulation {
		pos := positions[nodeIdx]
		if !isArticulation || b.board[pos].Height() > 1 {
			removable.Insert(pos)
		}
	}
	return removable
}

// dfsFrame is one entry of the explicit DFS stack: the node being visited, the node it was
// reached from (-1 for the root) and the index of the next edge to follow.
type dfsFrame struct {
	node, parent, nextEdge int
}

// FindArticulationPoints O(N+M), N = #nodes, M = #edges,
// see description in https://cp-algorithms.com/graph/cutpoints.html
//
// It works by doing DFS and monitoring the "time of entry into node", let's call it t, and it is incremented
// as each node is visited.
//
// For each node we keep track of tIn -> time that node was visited, and tLow the time of the node with the lowest
// looping connection -- or itself, if it hasn't found a loop-back.
//
// If the graph is not connected, nodes not reachable from root are left as non-articulation.
func (ap *findArticulationPointsState) FindArticulationPoints(root int) {
	ap.tIn = make([]int, ap.numVertices)
	ap.tLow = make([]int, ap.numVertices)
	ap.isArticulation = make([]bool, ap.numVertices)
	if ap.numVertices == 0 {
		return
	}

	t := 1
	ap.tIn[root], ap.tLow[root] = t, t
	t++
	rootChildren := 0
	stack := []dfsFrame{{node: root, parent: -1, nextEdge: ap.edgesPerNode[root][0]}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.nextEdge < ap.edgesPerNode[top.node][1] {
			neighbour := ap.allEdgesTarget[top.nextEdge]
			top.nextEdge++
			if neighbour == top.parent {
				continue
			}
			if ap.tIn[neighbour] != 0 {
				// "Back-edge", an edge to node already visited: we take this into account to our tLow.
				ap.tLow[top.node] = min(ap.tLow[top.node], ap.tIn[neighbour])
				continue
			}
			if top.node == root {
				rootChildren++
			}
			ap.tIn[neighbour], ap.tLow[neighbour] = t, t
			t++
			stack = append(stack, dfsFrame{node: neighbour, parent: top.node, nextEdge: ap.edgesPerNode[neighbour][0]})
			continue
		}

		// All edges of top visited: report back to its parent.
		node, parent := top.node, top.parent
		stack = stack[:len(stack)-1]
		if parent < 0 {
			continue
		}
		ap.tLow[parent] = min(ap.tLow[parent], ap.tLow[node])
		if parent != root && ap.tLow[node] >= ap.tIn[parent] {
			ap.isArticulation[parent] = true
		}
	}
	// The root is an articulation point if it had to traverse through more than one neighbour on the DFS.
	// If it were not an articulation point, all nodes would have been reached from the first descendant.
	ap.isArticulation[root] = rootChildren > 1
}
