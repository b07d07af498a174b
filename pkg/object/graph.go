package object

import (
	"errors"
	"fmt"
)

// HistoryNode is one commit emitted by WalkHistory.
type HistoryNode struct {
	ID      Hash
	Summary string // first line of the commit message
}

// HistoryEdge is a child-to-parent link emitted by WalkHistory.
type HistoryEdge struct {
	Child  Hash
	Parent Hash
}

// HistoryVisitor receives the traversal's node and edge records.
type HistoryVisitor interface {
	Node(HistoryNode) error
	Edge(HistoryEdge) error
}

// walkOp is one pending step of the traversal. Using an explicit worklist
// instead of recursion keeps stack usage flat on long histories.
type walkOp struct {
	visit bool
	edge  HistoryEdge
	id    Hash
}

// WalkHistory traverses commit ancestry from start, depth-first and
// first-parent-first. Each commit is emitted exactly once; edges are
// emitted for every child-parent link, including links into commits
// already visited, which is how merge histories and the visited set
// interact: the set guards re-emission and cycles, not edges.
//
// The visited set is owned by the caller and is mutated across the whole
// traversal; passing the same set into successive calls extends the
// dedup across them. It must not be shared between concurrent walks.
func (s *Store) WalkHistory(start Hash, visited map[Hash]struct{}, v HistoryVisitor) error {
	stack := []walkOp{{visit: true, id: start}}

	for len(stack) > 0 {
		op := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !op.visit {
			if err := v.Edge(op.edge); err != nil {
				return err
			}
			continue
		}

		if _, ok := visited[op.id]; ok {
			continue
		}
		visited[op.id] = struct{}{}

		commit, err := s.ReadCommit(op.id)
		if err != nil {
			var te *TypeMismatchError
			if errors.As(err, &te) {
				return fmt.Errorf("walk history: %s names a %s, not a commit", te.Hash, te.Got)
			}
			return fmt.Errorf("walk history: %w", err)
		}

		if err := v.Node(HistoryNode{ID: op.id, Summary: commit.Summary()}); err != nil {
			return err
		}

		// Push parents in reverse so the first parent's edge and subtree
		// are handled first, matching recursive descent order.
		parents := commit.Parents()
		for i := len(parents) - 1; i >= 0; i-- {
			stack = append(stack, walkOp{visit: true, id: parents[i]})
			stack = append(stack, walkOp{edge: HistoryEdge{Child: op.id, Parent: parents[i]}})
		}
	}

	return nil
}
