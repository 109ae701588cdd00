package main

import "github.com/mixuechu/wememory/cmd"

func main() {
	cmd.Execute()
}
