package main

import "github.com/pittawat/chatcore/cmd"

func main() {
	cmd.Execute()
}
