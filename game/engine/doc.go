// Package engine provides the Monopoly rules and turn-resolution engine.
//
// The engine package implements the game mechanics including:
//   - Dice with a consecutive-doubles streak and an injectable, seedable source
//   - The classic 40-space board, color groups and the nearest-space search
//   - Chance and Community Chest decks kept as ring buffers
//   - Rent for properties, railroads and utilities, and even house building
//   - Mortgages, jail, bankruptcy, surrender and game-over detection
//   - Snapshots for persistence and deterministic replay
//
// Core Types:
//
// The Engine interface defines the driver contract, implemented by GameEngine.
// Board owns every Space; players refer to spaces by index. Properties,
// railroads and utilities implement the Ownable capability. Each call to
// PlayTurn returns a TurnLog, the ordered events of that turn.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err := engine.NewEngine(config, []string{"Ada", "Grace"}, engine.WithSeed(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for !game.IsGameOver() {
//		turn, err := game.PlayTurn()
//		if err != nil {
//			break
//		}
//		for _, ev := range turn.Events {
//			fmt.Println(ev.Message)
//		}
//	}
//
// Game Rules:
//
// Undeveloped property rent equals the property's price, doubled when the
// owner holds the whole color group. Houses and hotels charge the printed rent
// table. A payment that cash cannot cover either fails quietly (the player is
// solvent on paper) or bankrupts the player, whose holdings return to the bank.
// There is no trading, no auctions and no automatic liquidation.
package engine
