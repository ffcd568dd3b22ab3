package main

import "github.com/naka-gawa/late-repos/cmd"

func main() {
	cmd.Execute()
}
