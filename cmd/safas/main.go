package main

import "github.com/Logicalshift/safas/pkg/cmd"

func main() {
	cmd.Execute()
}
