// Command foodreggie runs the food catalog server.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}
