// recipectl browses the MyRecipes catalog from the terminal
package main

import "github.com/findosh/myrecipes/internal/cli"

func main() {
	cli.Execute()
}
