package main

import "github.com/Another0Noob/attendance-recon/cmd"

func main() {
	cmd.Execute()
}
