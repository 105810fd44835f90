package main

import (
	"ActivityAdmin/cmd"
)

func main() {
	cmd.Execute()
}
