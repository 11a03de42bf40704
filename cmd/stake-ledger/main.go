package main

import (
	"fmt"
	"os"

	"github.com/onusone/stakeledger/ledgerservice"
)

func main() {
	if err := ledgerservice.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
