package main

import "github.com/darmiel/ctoken/cmd"

func main() {
	cmd.Execute()
}
