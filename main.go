package main

import "github.com/corby-engine/setup/cmd"

func main() {
	cmd.Execute()
}
