package main

import "github.com/pushr-cd/pushr/cmd/root"

func main() {
	root.Execute()
}
