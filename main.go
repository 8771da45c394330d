package main

import "github.com/Alturino/productproxy/cmd"

func main() {
	cmd.Start()
}
