package main

import "github.com/grocito/earnings/cmd"

func main() {
	cmd.Execute()
}
