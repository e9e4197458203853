// Package main is the entry point for the movemut CLI.
package main

import "github.com/movemut/movemut/cmd"

func main() {
	cmd.Execute()
}
