// Command qrgen builds, renders and decodes PromptPay QR payloads offline.
package main

import (
	"context"
	"fmt"
	"os"
)

var Version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
