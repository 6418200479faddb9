// xdccget is a client for the XDCC download server: it requests one pack and
// follows the transfer's status stream to a terminal outcome.
package main

import "xdccget/cmd"

func main() {
	cmd.Execute()
}
