package main

import "github.com/wheat/techdigest/cmd"

func main() {
	cmd.Execute()
}
