package main

import (
	"github.com/chloekek/neptunos/cmd"
)

func main() {
	cmd.Execute()
}
