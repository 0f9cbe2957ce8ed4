package main

import "github.com/frahmantamala/product-catalog/cmd"

func main() {
	cmd.Execute()
}
