package main

import "github.com/sexprlang/sexpr/cmd"

func main() {
	cmd.Execute()
}
