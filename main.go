package main

import "github.com/Tony-Hui/KeyValueStore/cmd"

func main() {
	cmd.Execute()
}
