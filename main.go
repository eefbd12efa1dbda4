package main

import "github.com/user/secmap/cmd"

func main() {
	cmd.Execute()
}
