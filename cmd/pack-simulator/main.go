// Command pack-simulator tracks a One Piece TCG collection and simulates
// opening booster packs and starter decks.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	env := &environment{}
	err := newRootCmd(env).Execute()
	if err = errors.Join(err, env.close()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
