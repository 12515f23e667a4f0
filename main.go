package main

import "github.com/jmehdipour/loyalty-admin/cmd"

func main() {
	cmd.Execute()
}
