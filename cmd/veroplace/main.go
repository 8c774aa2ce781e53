package main

import "github.com/chazu/veroplace/cmd/veroplace/cmd"

func main() {
	cmd.Execute()
}
