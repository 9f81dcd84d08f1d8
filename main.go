package main

import "github.com/samistat08/ro-process-dashboard/cmd"

func main() {
	cmd.Execute()
}
