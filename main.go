// docaudit analyzes Python source trees and audits their documentation.
package main

import "github.com/phobologic/docaudit/internal/cli"

func main() {
	cli.Execute()
}
