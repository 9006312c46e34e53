package main

import "github.com/jsphweid/notegen/cmd"

func main() {
	cmd.Execute()
}
