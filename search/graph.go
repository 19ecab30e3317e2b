package search

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"
	"text/template"

	"github.com/awalterschulze/gographviz"
	"github.com/gorgonia/abgo/game"
)

// node is a state visited by a traced search.
type node struct {
	ID     int
	Player game.Player // who made Move
	Move   game.Move   // the move that led here
	Score  Result
	Best   game.Move
	Cutoff bool
	Board  string // only for the root

	children []*node
	next     *int
}

func (s *Searcher) root(state game.State) *node {
	if !s.trace {
		return nil
	}
	s.nextID = 1
	board := html.EscapeString(fmt.Sprintf("%v", state))
	return &node{
		Player: game.Player(game.None),
		Move:   game.NoMove,
		Best:   game.NoMove,
		Board:  strings.Replace(board, "\n", "<BR />", -1),
		next:   &s.nextID,
	}
}

func (n *node) child(p game.Player, m game.Move) *node {
	if n == nil {
		return nil
	}
	kid := &node{
		ID:     *n.next,
		Player: p,
		Move:   m,
		Best:   game.NoMove,
		next:   n.next,
	}
	*n.next++
	n.children = append(n.children, kid)
	return kid
}

func (n *node) set(r Result, best game.Move) {
	if n == nil {
		return
	}
	n.Score, n.Best = r, best
}

func (n *node) cut(r Result, best game.Move) {
	if n == nil {
		return
	}
	n.set(r, best)
	n.Cutoff = true
}

// ToDot returns the tree of the last completed search in Graphviz's DOT format. The tree is only
// recorded if the Searcher was created WithTrace.
func (s *Searcher) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)

	var buf bytes.Buffer
	var walk func(n *node)
	walk = func(n *node) {
		name := strconv.Itoa(n.ID)
		tmpl.Execute(&buf, n)
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		g.AddNode("G", name, attrs)
		buf.Reset()
		for _, kid := range n.children {
			walk(kid)
			g.AddEdge(name, strconv.Itoa(kid.ID), true, nil)
		}
	}
	if s.tree != nil {
		walk(s.tree)
	}
	return g.String()
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Node ID</TD><TD>{{.ID}}</TD></TR>
<TR><TD>Move</TD><TD>{{.Move}}</TD></TR>
<TR><TD>Player</TD><TD>{{printf "%v" .Player}}</TD></TR>
<TR><TD>Score</TD><TD>{{printf "%v" .Score}}</TD></TR>
<TR><TD>Best</TD><TD>{{.Best}}</TD></TR>
{{if .Cutoff}}<TR><TD>Cutoff</TD><TD>yes</TD></TR>
{{end}}{{if .Board}}<TR><TD>State</TD><TD>{{.Board}}</TD></TR>
{{end}}</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("name").Parse(tmplRaw))
}
