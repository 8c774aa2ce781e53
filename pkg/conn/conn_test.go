package conn

import (
	"testing"

	"github.com/chazu/veroplace/pkg/board"
)

func TestSameStripIsConnected(t *testing.T) {
	b := board.New(5, 2, board.StripsHorizontal)
	e := NewEvaluator()

	nets := [][]board.Coord{{{X: 0, Y: 0}, {X: 4, Y: 0}}}
	v := e.Evaluate(b, nets, nil)
	if !v.Connected || v.Short {
		t.Errorf("verdict %+v, want connected and no short", v)
	}
}

func TestDifferentStripsAreDisconnected(t *testing.T) {
	b := board.New(5, 2, board.StripsHorizontal)
	e := NewEvaluator()

	nets := [][]board.Coord{{{X: 0, Y: 0}, {X: 0, Y: 1}}}
	v := e.Evaluate(b, nets, nil)
	if v.Connected {
		t.Error("holes on different strips should not be connected")
	}
}

func TestJumperBridgesStrips(t *testing.T) {
	b := board.New(5, 2, board.StripsHorizontal)
	e := NewEvaluator()

	nets := [][]board.Coord{{{X: 0, Y: 0}, {X: 4, Y: 1}}}
	jumpers := [][2]board.Coord{{{X: 2, Y: 0}, {X: 2, Y: 1}}}
	v := e.Evaluate(b, nets, jumpers)
	if !v.Connected {
		t.Error("jumper should bridge the two strips")
	}
}

func TestDrillSplitsStrip(t *testing.T) {
	b := board.New(5, 1, board.StripsHorizontal)
	e := NewEvaluator()
	b.Drill(board.Coord{X: 2, Y: 0})

	nets := [][]board.Coord{
		{{X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 3, Y: 0}, {X: 4, Y: 0}},
	}
	v := e.Evaluate(b, nets, nil)
	if !v.Connected {
		t.Error("both net halves should stay internally connected")
	}
	if v.Short {
		t.Error("the drill should separate the two nets")
	}

	b.Undrill(board.Coord{X: 2, Y: 0})
	v = e.Evaluate(b, nets, nil)
	if !v.Short {
		t.Error("without the drill the shared strip shorts the nets")
	}
}

func TestDrilledHoleIsIsolated(t *testing.T) {
	b := board.New(3, 1, board.StripsHorizontal)
	e := NewEvaluator()
	b.Drill(board.Coord{X: 1, Y: 0})

	nets := [][]board.Coord{{{X: 0, Y: 0}, {X: 1, Y: 0}}}
	v := e.Evaluate(b, nets, nil)
	if v.Connected {
		t.Error("a drilled hole has no pad and cannot join its strip")
	}
}

func TestEvaluatorReuseAcrossBoards(t *testing.T) {
	e := NewEvaluator()

	big := board.New(10, 10, board.StripsVertical)
	v := e.Evaluate(big, [][]board.Coord{{{X: 3, Y: 0}, {X: 3, Y: 9}}}, nil)
	if !v.Connected {
		t.Error("vertical strip should connect a full column")
	}

	small := board.New(2, 2, board.StripsHorizontal)
	v = e.Evaluate(small, [][]board.Coord{{{X: 0, Y: 0}, {X: 1, Y: 0}}}, nil)
	if !v.Connected || v.Short {
		t.Errorf("verdict after shrink %+v, want connected and no short", v)
	}
}
