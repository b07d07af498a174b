package repo

import (
	"fmt"
	"io"
	"strings"

	"github.com/gat-vcs/gat/pkg/object"
)

// abbrevLen is the number of hash characters shown in graph node labels.
const abbrevLen = 7

// dotVisitor renders history records as Graphviz statements.
type dotVisitor struct {
	w   io.Writer
	err error
}

func (v *dotVisitor) Node(n object.HistoryNode) error {
	label := fmt.Sprintf("%s: %s", abbrev(n.ID), escapeLabel(n.Summary))
	_, v.err = fmt.Fprintf(v.w, "  c_%s [label=\"%s\"]\n", n.ID, label)
	return v.err
}

func (v *dotVisitor) Edge(e object.HistoryEdge) error {
	_, v.err = fmt.Fprintf(v.w, "  c_%s -> c_%s;\n", e.Child, e.Parent)
	return v.err
}

// WriteLogDot emits the ancestry of start as a Graphviz digraph suitable
// for external rendering.
func (r *Repo) WriteLogDot(w io.Writer, start object.Hash) error {
	if _, err := fmt.Fprintln(w, "digraph gatlog{"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  node[shape=rect]"); err != nil {
		return err
	}

	visited := make(map[object.Hash]struct{})
	if err := r.Store.WalkHistory(start, visited, &dotVisitor{w: w}); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func abbrev(h object.Hash) string {
	if len(h) > abbrevLen {
		return string(h[:abbrevLen])
	}
	return string(h)
}

// escapeLabel makes a message line safe inside a double-quoted dot label.
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
