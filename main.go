package main

import "github.com/wundergraph/graphql-go-compiler/cmd"

func main() {
	cmd.Execute()
}
