package model

import (
	"errors"
	"fmt"
)

// Node is one node of a decision tree in preorder layout. Leaves have
// Left == -1 and carry the class distribution in Value.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

func (n *Node) isLeaf() bool { return n.Left == -1 }

// Tree is a single decision tree.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Forest is a random forest of binary decision trees. Its probability is
// the mean of the normalized leaf distributions reached in each tree.
type Forest struct {
	trees []Tree
}

// NewForest validates trees and normalizes leaf distributions.
func NewForest(trees []Tree) (*Forest, error) {
	if len(trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	out := make([]Tree, len(trees))
	for i, t := range trees {
		nt, err := normalizeTree(t)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		out[i] = nt
	}
	return &Forest{trees: out}, nil
}

// normalizeTree checks the node graph and rescales leaves to sum to one.
// Children must point forward, which rules out cycles and bounds traversal.
func normalizeTree(t Tree) (Tree, error) {
	if len(t.Nodes) == 0 {
		return Tree{}, errors.New("no nodes")
	}
	nodes := make([]Node, len(t.Nodes))
	copy(nodes, t.Nodes)
	for i := range nodes {
		n := &nodes[i]
		if n.isLeaf() {
			if len(n.Value) != 2 {
				return Tree{}, fmt.Errorf("leaf %d: want 2 class weights, got %d", i, len(n.Value))
			}
			if n.Value[0] < 0 || n.Value[1] < 0 {
				return Tree{}, fmt.Errorf("leaf %d: negative class weight", i)
			}
			sum := n.Value[0] + n.Value[1]
			if !(sum > 0) {
				return Tree{}, fmt.Errorf("leaf %d: class weights sum to %v", i, sum)
			}
			n.Value = []float64{n.Value[0] / sum, n.Value[1] / sum}
			continue
		}
		if n.Feature < 0 || n.Feature >= NumFeatures {
			return Tree{}, fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(nodes) {
				return Tree{}, fmt.Errorf("node %d: child %d out of order", i, child)
			}
		}
	}
	return Tree{Nodes: nodes}, nil
}

func (t *Tree) leaf(x Features) []float64 {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.isLeaf() {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// PredictProba returns the averaged class distribution for x.
func (f *Forest) PredictProba(x Features) [2]float64 {
	var sum [2]float64
	for i := range f.trees {
		v := f.trees[i].leaf(x)
		sum[0] += v[0]
		sum[1] += v[1]
	}
	n := float64(len(f.trees))
	return [2]float64{sum[0] / n, sum[1] / n}
}

// Predict returns the class with the highest mean probability; ties go to
// class 0.
func (f *Forest) Predict(x Features) int {
	p := f.PredictProba(x)
	if p[1] > p[0] {
		return 1
	}
	return 0
}

// Summary describes the shape of a forest.
type Summary struct {
	Trees    int
	Nodes    int
	Leaves   int
	MaxDepth int
}

// Summary walks every tree and reports its size.
func (f *Forest) Summary() Summary {
	s := Summary{Trees: len(f.trees)}
	for i := range f.trees {
		nodes := f.trees[i].Nodes
		s.Nodes += len(nodes)
		depth := make([]int, len(nodes))
		for j := range nodes {
			n := &nodes[j]
			if n.isLeaf() {
				s.Leaves++
				if depth[j] > s.MaxDepth {
					s.MaxDepth = depth[j]
				}
				continue
			}
			depth[n.Left] = depth[j] + 1
			depth[n.Right] = depth[j] + 1
		}
	}
	return s
}
