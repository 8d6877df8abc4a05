// Package engine implements the Klondike Solitaire rules.
//
// The package is layered leaf to root:
//   - Card: rank and suit with a mutable face-up flag
//   - Pile: a named LIFO stack of cards with no rule checks
//   - Board: the thirteen piles (Stock, Discard, four foundations, PILE-1..PILE-7)
//   - rules: MoveToFoundation, MoveToPile, DiscardThree and ResetStock
//   - GameEngine: one board per session plus its starting deal and move log
//
// Every rule function either mutates the board and returns nil, or returns a
// *GameError whose Kind is one of the Err* sentinels and leaves the board
// exactly as it was.
//
// Usage:
//
//	board, err := engine.DecodeBoard(saveText)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err := engine.NewEngine("classic", board)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := game.Move("3", "suit"); errors.Is(err, engine.ErrIllegalMove) {
//		fmt.Println("Not a valid move!")
//	}
//	fmt.Print(game.Save())
//
// Save format:
//
// One line per pile in board order, "<Name> [ tok tok ... ]", top card
// first. A token is the rank symbol (A, 2-9, T, J, Q, K), the suit code
// (s, h, d, c) and "+" for face-up or "-" for face-down.
package engine
