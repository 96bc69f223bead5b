package main

import "github.com/libaurex/aurex/cmd"

func main() {
	cmd.Execute()
}
