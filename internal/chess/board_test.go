package chess

import (
	"errors"
	"testing"
)

func TestInitialPosition(t *testing.T) {
	p := NewInitialPosition()
	if p.Index() != 0 || p.SideToMove() != White {
		t.Fatalf("index=%d side=%v", p.Index(), p.SideToMove())
	}
	cases := []struct {
		sq   string
		want Piece
	}{
		{"e1", MakePiece(White, King)},
		{"d8", MakePiece(Black, Queen)},
		{"a1", MakePiece(White, Rook)},
		{"g8", MakePiece(Black, Knight)},
		{"c2", MakePiece(White, Pawn)},
		{"e4", NoPiece},
	}
	for _, tc := range cases {
		sq, err := ParseSquare(tc.sq)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.PieceAt(sq); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.sq, got, tc.want)
		}
	}
	for _, side := range []Side{White, Black} {
		if p.Material(side) != 39 {
			t.Errorf("%v material = %d", side, p.Material(side))
		}
	}
	wk, err := p.KingSquare(White)
	if err != nil || wk != Sq(0, 4) {
		t.Fatalf("white king = %v, %v", wk, err)
	}
}

func TestNewPositionRequiresKings(t *testing.T) {
	_, err := NewPosition(0, map[Square]Piece{Sq(0, 4): MakePiece(White, King)})
	var kerr *KingNotFoundError
	if !errors.As(err, &kerr) || kerr.Side != Black {
		t.Fatalf("expected missing black king, got %v", err)
	}
	if !errors.Is(err, ErrKingNotFound) {
		t.Fatalf("error does not wrap ErrKingNotFound: %v", err)
	}

	_, err = NewPosition(0, map[Square]Piece{
		Sq(0, 4): MakePiece(White, King),
		Sq(0, 5): MakePiece(White, King),
		Sq(7, 4): MakePiece(Black, King),
	})
	if !errors.Is(err, ErrKingNotFound) {
		t.Fatalf("two white kings accepted: %v", err)
	}

	_, err = NewPosition(0, map[Square]Piece{Sq(8, 0): MakePiece(White, Pawn)})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("off-board square accepted: %v", err)
	}
}

func TestApplyLeavesSourceUntouched(t *testing.T) {
	p := NewInitialPosition()
	before := p.Cells()
	m, _ := ParseMove("e2e4")
	next, err := Apply(p, m)
	if err != nil {
		t.Fatal(err)
	}
	after := p.Cells()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("cell %v changed from %v to %v", before[i].Square, before[i].Piece, after[i].Piece)
		}
	}
	if next.Index() != 1 || next.SideToMove() != Black {
		t.Fatalf("next index=%d side=%v", next.Index(), next.SideToMove())
	}
	if next.PieceAt(Sq(3, 4)) != MakePiece(White, Pawn) || !next.PieceAt(Sq(1, 4)).IsEmpty() {
		t.Fatalf("pawn not moved:\n%v", next)
	}
	if p.Equal(next) {
		t.Fatalf("positions should differ")
	}
}

func TestApplyShapes(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		move  string
		empty []string
		want  map[string]Piece
	}{
		{
			name:  "short castling",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			move:  "e1g1",
			empty: []string{"e1", "h1"},
			want:  map[string]Piece{"g1": MakePiece(White, King), "f1": MakePiece(White, Rook)},
		},
		{
			name:  "long castling",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
			move:  "e8c8",
			empty: []string{"e8", "a8", "b8"},
			want:  map[string]Piece{"c8": MakePiece(Black, King), "d8": MakePiece(Black, Rook)},
		},
		{
			name:  "en passant",
			fen:   "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2",
			move:  "e5d6",
			empty: []string{"e5", "d5"},
			want:  map[string]Piece{"d6": MakePiece(White, Pawn)},
		},
		{
			name:  "promotion with capture",
			fen:   "1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1",
			move:  "a7b8n",
			empty: []string{"a7"},
			want:  map[string]Piece{"b8": MakePiece(White, Knight)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := MustDecodeFEN(tc.fen)
			m, err := ParseMove(tc.move)
			if err != nil {
				t.Fatal(err)
			}
			next, err := Apply(p, m)
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			for _, s := range tc.empty {
				sq, _ := ParseSquare(s)
				if !next.PieceAt(sq).IsEmpty() {
					t.Errorf("%s not empty: %v", s, next.PieceAt(sq))
				}
			}
			for s, pc := range tc.want {
				sq, _ := ParseSquare(s)
				if next.PieceAt(sq) != pc {
					t.Errorf("%s = %v, want %v", s, next.PieceAt(sq), pc)
				}
			}
			if next.Hash() != next.CalculateHash() {
				t.Errorf("incremental hash mismatch")
			}
		})
	}
}

func TestApplyKingSquareTracksCastling(t *testing.T) {
	p, _ := MustDecodeFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	next, err := Apply(p, Move{From: Sq(0, 4), To: Sq(0, 6)})
	if err != nil {
		t.Fatal(err)
	}
	k, err := next.KingSquare(White)
	if err != nil || k != Sq(0, 6) {
		t.Fatalf("king square = %v, %v", k, err)
	}
}

func TestApplyErrors(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		move Move
		want error
	}{
		{"empty origin", StartFEN, Move{From: Sq(3, 3), To: Sq(4, 3)}, ErrIllegalState},
		{"off board", StartFEN, Move{From: Sq(1, 0), To: Sq(8, 0)}, ErrOutOfRange},
		{"missing promotion", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", Move{From: Sq(6, 0), To: Sq(7, 0)}, ErrInvalidMove},
		{"promote to king", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", Move{From: Sq(6, 0), To: Sq(7, 0), Promotion: King}, ErrInvalidMove},
		{"promotion on quiet move", StartFEN, Move{From: Sq(1, 4), To: Sq(3, 4), Promotion: Queen}, ErrInvalidMove},
		{"own capture", StartFEN, Move{From: Sq(0, 0), To: Sq(1, 0)}, ErrIllegalState},
		{"king capture", "4k3/8/8/8/8/8/8/4KR2 w - - 0 1", Move{From: Sq(0, 5), To: Sq(7, 4)}, ErrIllegalState},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := MustDecodeFEN(tc.fen)
			_, err := Apply(p, tc.move)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestReplay(t *testing.T) {
	p := NewInitialPosition()
	r := InitialRights()
	var entries []HistoryEntry
	for _, text := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6", "e1g1"} {
		m, err := ParseMove(text)
		if err != nil {
			t.Fatal(err)
		}
		entries = append(entries, HistoryOf(p, m))
		r = r.Next(HistoryOf(p, m))
		if p, err = Apply(p, m); err != nil {
			t.Fatalf("%s: %v", text, err)
		}
	}

	got, gotRights, err := Replay(entries)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(p) || got.Index() != p.Index() || got.Hash() != p.Hash() {
		t.Fatalf("replay mismatch:\n%v\nwant\n%v", got, p)
	}
	if gotRights != r {
		t.Fatalf("rights mismatch: %+v vs %+v", gotRights, r)
	}
	if gotRights[White].Long || gotRights[White].Short {
		t.Fatalf("castled side keeps rights: %+v", gotRights[White])
	}

	mid, _, err := ReplayTo(entries, 2)
	if err != nil {
		t.Fatal(err)
	}
	if mid.Index() != 2 || mid.PieceAt(Sq(4, 4)) != MakePiece(Black, Pawn) {
		t.Fatalf("replay to ply 2:\n%v", mid)
	}

	if _, _, err := ReplayTo(entries, len(entries)+1); !errors.Is(err, ErrHistoryOrder) {
		t.Fatalf("ply past the end: %v", err)
	}

	gap := append([]HistoryEntry{}, entries...)
	gap[3].Ply = 7
	if _, _, err := Replay(gap); !errors.Is(err, ErrHistoryOrder) {
		t.Fatalf("gap accepted: %v", err)
	}

	wrong := append([]HistoryEntry{}, entries...)
	wrong[1].Piece = MakePiece(Black, Knight)
	if _, _, err := Replay(wrong); !errors.Is(err, ErrIllegalState) {
		t.Fatalf("wrong piece accepted: %v", err)
	}
}
