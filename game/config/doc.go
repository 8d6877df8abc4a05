// Package config provides deal and settings management for the Klondike server.
//
// The config package handles:
//   - Loading named starting boards ("deals") from save-format .txt files
//   - Deal validation before anything is cached or written
//   - Default deal selection, falling back to a built-in layout
//   - User settings stored as TOML under $XDG_CONFIG_HOME/klondike
//
// Deal Format:
//
// A deal file uses the same text format as a saved game, one line per pile
// with the top card first:
//
//	Stock [ 9d+ 4c- Kh- ... ]
//	Discard [ ]
//	Spades [ ]
//	...
//	PILE-1 [ Qs+ ]
//	PILE-2 [ 7h+ 2d- ]
//
// A deal must hold all 52 cards exactly once, foundations must be built up
// in suit from the Ace, and every tableau column must be a face-down prefix
// under a descending face-up run.
//
// Usage:
//
//	manager, err := config.NewManager("deals")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	deal, err := manager.LoadDeal("standard")
//	board, name := manager.GetDefault()
//	deals, err := manager.ListDeals()
//
// When the deals directory holds no usable file, the "standard" deal is
// generated by engine.StandardDeal.
package config
