// See cli package.
package main

import (
	"github.com/edygar/interval/cli"
)

func main() {
	cli.Run()
}
