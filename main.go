package main

import (
	_ "time/tzdata"

	"seminar-sync/cmd"
)

func main() {
	cmd.Execute()
}
