package main

import "github.com/dbsmedya/depaudit/cmd/depaudit/cmd"

func main() {
	cmd.Execute()
}
